package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID_Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		id := NextID()
		assert.False(t, seen[id], "id %d generated twice", id)
		seen[id] = true
	}
}

func TestTransferReferenceNo_Format(t *testing.T) {
	ref := TransferReferenceNo()
	assert.True(t, strings.HasPrefix(ref, "TRF"))
	assert.Len(t, ref, len("TRF")+14+8)

	assert.NotEqual(t, ref, TransferReferenceNo())
}
