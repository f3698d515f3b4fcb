package facade_test

import (
	"bytes"
	"testing"

	"github.com/joshuapare/tlsfkit/facade"
	"github.com/joshuapare/tlsfkit/tlsf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericForwardsToBackend(t *testing.T) {
	backend := tlsf.New()
	require.NoError(t, backend.AddPool(make([]byte, 1024)))

	g := facade.NewGeneric[tlsf.Ref](backend)

	ref, payload, err := g.Alloc(64)
	require.NoError(t, err)
	assert.Len(t, payload, 64)
	assert.True(t, g.Contains(ref))

	grown, payload, err := g.Realloc(ref, 128)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(payload), 128)

	require.NoError(t, g.Free(grown))

	var buf bytes.Buffer
	require.NoError(t, g.Dump(&buf))
	assert.Contains(t, buf.String(), "pool 0")
}
