package canary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertEqual(t *testing.T) {
	assert.NoError(t, AssertEqual(2, 2, "equal ints"))
	assert.NoError(t, AssertEqual("a", "a", "equal strings"))

	err := AssertEqual(1, 2, "numbers differ")
	assert.EqualError(t, err, "Assertion failed: numbers differ | 1 !== 2")

	assert.Error(t, AssertEqual(1, int64(1), "types differ"))
}

func TestAssertEqualStructured(t *testing.T) {
	assert.NoError(t, AssertEqual([]byte("ok"), []byte("ok"), "equal bytes"))
	assert.NoError(t, AssertEqual(map[string]int{"a": 1}, map[string]int{"a": 1}, "equal maps"))
	assert.NoError(t, AssertEqual(nil, nil, "both nil"))

	assert.Error(t, AssertEqual([]int{1, 2}, []int{2, 1}, "order matters"))
	assert.Error(t, AssertEqual(nil, 0, "nil is not zero"))
}

func TestCheckFails(t *testing.T) {
	err := Check()
	assert.EqualError(t, err, "Assertion failed: AI should detect and fix this test | 2 !== 3")
}
