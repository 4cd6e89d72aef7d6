package pcf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShapeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "{3,4}", Shape{3, 4}.String())
	require.Equal(t, "{7}", Shape{7}.String())
	require.Equal(t, "{}", Shape{}.String())
}

func TestParseShape(t *testing.T) {
	t.Parallel()

	s, err := ParseShape("{2,3,4}")
	require.NoError(t, err)
	require.Equal(t, Shape{2, 3, 4}, s)
	require.Equal(t, 24, s.NumElements())

	s, err = ParseShape("{}")
	require.NoError(t, err)
	require.Empty(t, s)
	require.Equal(t, 1, s.NumElements())

	for _, bad := range []string{"", "3,4", "{3,4", "{3,,4}", "{3,0}", "{-1}", "{a}"} {
		_, err := ParseShape(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestShapeSplitLast(t *testing.T) {
	t.Parallel()

	row, n, err := Shape{4, 10}.SplitLast()
	require.NoError(t, err)
	require.Equal(t, Shape{4}, row)
	require.Equal(t, 10, n)
	require.Equal(t, Shape{4, 10}, row.Append(n))

	_, _, err = Shape{}.SplitLast()
	require.Error(t, err)
}

func TestShapeCloneIsIndependent(t *testing.T) {
	t.Parallel()

	a := Shape{1, 2}
	b := a.Clone()
	b[0] = 9
	require.Equal(t, 1, a[0])
	require.True(t, a.Equal(Shape{1, 2}))
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(Shape{1}))
}

func TestShapeValidateOverflow(t *testing.T) {
	t.Parallel()

	require.Error(t, Shape{4294967296, 4294967296}.Validate())
	require.Error(t, Shape{math.MaxInt, 2}.Validate())
	require.NoError(t, Shape{math.MaxInt}.Validate())
	require.NoError(t, Shape{math.MaxInt / 2, 2}.Validate())

	_, err := ParseShape("{4294967296,4294967296}")
	require.Error(t, err)
}
