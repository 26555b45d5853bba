package gotest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseList(t *testing.T) {
	t.Run("single package", func(t *testing.T) {
		out := []byte("TestAlpha\nTestBeta\nok  \texample.com/pkg\t0.012s\n")
		ids := ParseList(out)
		assert.Equal(t, []string{
			"example.com/pkg::TestAlpha",
			"example.com/pkg::TestBeta",
		}, ids)
	})

	t.Run("multiple packages", func(t *testing.T) {
		out := []byte(
			"TestOne\n" +
				"ok  \texample.com/a\t0.010s\n" +
				"TestTwo\n" +
				"TestThree\n" +
				"ok  \texample.com/b\t0.020s\n",
		)
		ids := ParseList(out)
		assert.Equal(t, []string{
			"example.com/a::TestOne",
			"example.com/b::TestTwo",
			"example.com/b::TestThree",
		}, ids)
	})

	t.Run("ignores packages without test files", func(t *testing.T) {
		out := []byte("?   \texample.com/empty\t[no test files]\nTestOnly\nok  \texample.com/a\t0.010s\n")
		ids := ParseList(out)
		assert.Equal(t, []string{"example.com/a::TestOnly"}, ids)
	})

	t.Run("drops tests of packages that failed to build", func(t *testing.T) {
		out := []byte("TestBroken\nFAIL\texample.com/bad [build failed]\n")
		assert.Empty(t, ParseList(out))
	})

	t.Run("empty output", func(t *testing.T) {
		assert.Empty(t, ParseList(nil))
	})
}

func TestIsTestName(t *testing.T) {
	assert.True(t, isTestName("TestFoo"))
	assert.False(t, isTestName("ok  \texample.com/a\t0.010s"))
	assert.False(t, isTestName("BenchmarkFoo"))
	assert.False(t, isTestName("Test with spaces"))
}
