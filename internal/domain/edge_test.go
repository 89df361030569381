package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeEndpoints(t *testing.T) {
	edge := Edge{From: "REQ-1", To: "FN-1", FromKind: KindRequirement, ToKind: KindFunction}

	t.Run("other end from either side", func(t *testing.T) {
		assert.Equal(t, "FN-1", edge.OtherEnd("REQ-1"))
		assert.Equal(t, "REQ-1", edge.OtherEnd("FN-1"))
	})

	t.Run("self link points back at itself", func(t *testing.T) {
		self := Edge{From: "A", To: "A"}
		assert.Equal(t, "A", self.OtherEnd("A"))
	})

	t.Run("string form keeps direction", func(t *testing.T) {
		assert.Equal(t, "REQ-1(Requirement) -> FN-1(Function)", edge.String())
	})
}
