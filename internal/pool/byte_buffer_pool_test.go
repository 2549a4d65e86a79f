package pool

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = bb.WriteString(", world")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = fmt.Fprintf(bb, "!%d", 1)
	require.NoError(t, err)

	assert.Equal(t, "hello, world!1", string(bb.Bytes()))
}

func TestByteBuffer_CloneOutlivesReset(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.WriteString("source")

	clone := bb.Clone()
	bb.Reset()
	_, _ = bb.WriteString("XXXXXX")

	assert.Equal(t, "source", string(clone))
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.WriteString("payload")

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", out.String())
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(64, 128)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.WriteString("data")
	p.Put(bb)

	again := p.Get()
	assert.Equal(t, 0, again.Len(), "pooled buffers are reset")
}

func TestByteBufferPool_DropsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	_, _ = bb.Write(make([]byte, 64))
	p.Put(bb) // dropped, must not panic
	p.Put(nil)

	assert.LessOrEqual(t, cap(p.Get().B), 64)
}

func TestRenderBuffer_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bb := GetRenderBuffer()
			defer PutRenderBuffer(bb)
			_, _ = fmt.Fprintf(bb, "worker-%d", i)
			assert.Equal(t, fmt.Sprintf("worker-%d", i), string(bb.Bytes()))
		}(i)
	}
	wg.Wait()
}
