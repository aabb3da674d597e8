package pool

import "testing"

func TestBufferPoolResetsLength(t *testing.T) {
	bp := NewBufferPool(16)
	buf := bp.Get()
	*buf = append(*buf, "hello"...)
	bp.Put(buf)

	again := bp.Get()
	if len(*again) != 0 {
		t.Errorf("expected empty buffer from pool, got len %d", len(*again))
	}
}

func TestStringBuilderPoolResets(t *testing.T) {
	sbp := NewStringBuilderPool()
	sb := sbp.Get()
	sb.WriteString("chapter")
	sbp.Put(sb)

	again := sbp.Get()
	if again.Len() != 0 {
		t.Errorf("expected reset builder, got %q", again.String())
	}
}
