package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateResourceHash_Stable(t *testing.T) {
	a := map[string]interface{}{"styleNo": "CO12345", "color": "Navy", "qty": 120}
	b := map[string]interface{}{"qty": 120, "color": "Navy", "styleNo": "CO12345"}

	ha, err := CalculateResourceHash(a)
	require.NoError(t, err)
	hb, err := CalculateResourceHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb, "field order must not affect the hash")
}

func TestCalculateResourceHash_DetectsChange(t *testing.T) {
	a := map[string]interface{}{"styleNo": "CO12345", "qty": 120}
	b := map[string]interface{}{"styleNo": "CO12345", "qty": 121}

	ha, err := CalculateResourceHash(a)
	require.NoError(t, err)
	hb, err := CalculateResourceHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestCalculateResourceHash_IgnoresSyncMetadata(t *testing.T) {
	a := map[string]interface{}{"styleNo": "CO12345"}
	b := map[string]interface{}{
		"styleNo":      "CO12345",
		"resourceHash": "deadbeef",
		"updatedAt":    "2025-06-01T00:00:00Z",
		"syncRunId":    "abc",
	}

	ha, err := CalculateResourceHash(a)
	require.NoError(t, err)
	hb, err := CalculateResourceHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}
