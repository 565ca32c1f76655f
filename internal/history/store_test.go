package history

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipstack/internal/types"
)

func texts(s *Store) []string {
	out := make([]string, 0, s.Len())
	for _, e := range s.Snapshot() {
		switch e.Payload.Type {
		case types.TypeText:
			out = append(out, e.Payload.Text)
		case types.TypeImage:
			out = append(out, "img:"+e.Payload.Image.Digest)
		}
	}
	return out
}

func imagePayload(digest, thumb string) types.ClipPayload {
	return types.NewImagePayload(types.ImageData{
		Full:      []byte("full-" + digest),
		Thumbnail: []byte(thumb),
		Digest:    digest,
		Width:     4,
		Height:    4,
	})
}

func TestInsertOrderAndReinsert(t *testing.T) {
	s := New(10, nil)
	for i := 0; i < 10; i++ {
		s.Insert(types.NewTextPayload(fmt.Sprintf("t%d", i)))
	}
	want := []string{"t9", "t8", "t7", "t6", "t5", "t4", "t3", "t2", "t1", "t0"}
	if diff := cmp.Diff(want, texts(s)); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	s.Insert(types.NewTextPayload("t5"))
	want = []string{"t5", "t9", "t8", "t7", "t6", "t4", "t3", "t2", "t1", "t0"}
	if diff := cmp.Diff(want, texts(s)); diff != "" {
		t.Fatalf("history after re-insert mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertBoundedAndUnique(t *testing.T) {
	s := New(3, nil)
	inputs := []string{"a", "b", "a", "c", "d", "b", "b", "e", "a"}
	for _, in := range inputs {
		s.Insert(types.NewTextPayload(in))
		require.LessOrEqual(t, s.Len(), 3)

		seen := map[string]bool{}
		for _, text := range texts(s) {
			require.False(t, seen[text], "duplicate %q in %v", text, texts(s))
			seen[text] = true
		}
		assert.Equal(t, in, texts(s)[0])
	}
	assert.Equal(t, []string{"a", "e", "b"}, texts(s))
}

func TestInsertNewShiftsAndDropsTail(t *testing.T) {
	s := New(3, nil)
	s.Insert(types.NewTextPayload("a"))
	s.Insert(types.NewTextPayload("b"))
	s.Insert(types.NewTextPayload("c"))

	e := s.Insert(types.NewTextPayload("d"))
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, []string{"d", "c", "b"}, texts(s))
}

func TestReinsertKeepsLength(t *testing.T) {
	s := New(5, nil)
	for _, in := range []string{"a", "b", "c"} {
		s.Insert(types.NewTextPayload(in))
	}
	s.Insert(types.NewTextPayload("a"))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "c", "b"}, texts(s))
}

func TestImageDedupByDigest(t *testing.T) {
	s := New(10, nil)
	s.Insert(imagePayload("F1", "thumb-a"))
	s.Insert(types.NewTextPayload("hello"))

	// Same digest, different thumbnail bytes: still the same image.
	s.Insert(imagePayload("F1", "thumb-b"))
	assert.Equal(t, []string{"img:F1", "hello"}, texts(s))
	assert.Equal(t, []byte("thumb-b"), s.Snapshot()[0].Payload.Image.Thumbnail)

	s.Insert(imagePayload("F2", "thumb-a"))
	assert.Equal(t, []string{"img:F2", "img:F1", "hello"}, texts(s))
}

func TestTextAndImageNeverEqual(t *testing.T) {
	s := New(10, nil)
	s.Insert(types.NewTextPayload("F1"))
	s.Insert(imagePayload("F1", "x"))
	assert.Equal(t, 2, s.Len())
}

func TestPromote(t *testing.T) {
	s := New(10, nil)
	for _, in := range []string{"a", "b", "c", "d"} {
		s.Insert(types.NewTextPayload(in))
	}
	before := s.Snapshot()

	t.Run("already first is a no-op", func(t *testing.T) {
		changed := s.Promote(types.ClipEntry{Payload: types.NewTextPayload("d")})
		assert.False(t, changed)
		if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
			t.Fatalf("promote of head changed history (-want +got):\n%s", diff)
		}
	})

	t.Run("missing entry is a no-op", func(t *testing.T) {
		assert.False(t, s.Promote(types.ClipEntry{Payload: types.NewTextPayload("zzz")}))
		assert.Equal(t, []string{"d", "c", "b", "a"}, texts(s))
	})

	t.Run("moves to front and keeps the entry", func(t *testing.T) {
		target := before[2]
		assert.True(t, s.Promote(types.ClipEntry{Payload: types.NewTextPayload("b")}))
		assert.Equal(t, []string{"b", "d", "c", "a"}, texts(s))
		assert.Equal(t, target.ID, s.Snapshot()[0].ID)
	})
}

func TestClear(t *testing.T) {
	s := New(10, nil)
	s.Insert(types.NewTextPayload("a"))
	s.Insert(imagePayload("F1", "x"))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Snapshot())

	s.Insert(types.NewTextPayload("b"))
	assert.Equal(t, []string{"b"}, texts(s))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(10, nil)
	s.Insert(types.NewTextPayload("a"))
	snap := s.Snapshot()
	snap[0].Payload.Text = "mutated"
	assert.Equal(t, []string{"a"}, texts(s))
}

func TestNewHydratesWithDedupAndCapacity(t *testing.T) {
	initial := []types.ClipEntry{
		{ID: "1", Payload: types.NewTextPayload("a")},
		{ID: "2", Payload: types.NewTextPayload("b")},
		{ID: "3", Payload: types.NewTextPayload("a")},
		{Payload: types.NewTextPayload("c")},
		{ID: "5", Payload: types.NewTextPayload("d")},
	}
	s := New(3, initial)
	assert.Equal(t, []string{"a", "b", "c"}, texts(s))
	assert.Equal(t, "1", s.Snapshot()[0].ID)
	assert.NotEmpty(t, s.Snapshot()[2].ID)
}

func TestDeterministicOrder(t *testing.T) {
	run := func() []string {
		s := New(4, nil)
		s.newID = func() string { return "fixed" }
		for _, in := range []string{"a", "b", "c", "a", "d", "e"} {
			s.Insert(types.NewTextPayload(in))
		}
		s.Promote(types.ClipEntry{Payload: types.NewTextPayload("d")})
		s.Promote(types.ClipEntry{Payload: types.NewTextPayload("a")})
		return texts(s)
	}
	assert.Equal(t, run(), run())
	assert.Equal(t, []string{"a", "d", "e", "c"}, run())
}

func TestFindAndAt(t *testing.T) {
	s := New(10, nil)
	a := s.Insert(types.NewTextPayload("a"))
	s.Insert(types.NewTextPayload("b"))

	got, ok := s.Find(a.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Payload.Text)

	_, ok = s.Find("nope")
	assert.False(t, ok)

	got, ok = s.At(0)
	require.True(t, ok)
	assert.Equal(t, "b", got.Payload.Text)

	_, ok = s.At(2)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
}
