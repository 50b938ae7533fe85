package delta_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/draw"
	"github.com/roach88/drawsync/internal/source"
	"github.com/roach88/drawsync/internal/testutil"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name   string
		local  draw.DrawID
		page   []source.Entry
		remote draw.DrawID
		update bool
	}{
		{"newer remote", "2451", testutil.FakeEntries("2455", "2454"), "2455", true},
		{"equal", "2455", testutil.FakeEntries("2455", "2454"), "2455", false},
		{"older remote", "2460", testutil.FakeEntries("2455"), "2455", false},
		{"empty local", "", testutil.FakeEntries("1"), "1", true},
		{"zero local", "0", testutil.FakeEntries("25001"), "25001", true},
		{"numeric not lexicographic", "9999", testutil.FakeEntries("10000"), "10000", true},
		{"leading zeros", "02455", testutil.FakeEntries("2455"), "2455", false},
		{
			"skips unusable first entry",
			"2451",
			[]source.Entry{{DrawID: "n/a"}, {DrawID: "2452", Result: "x"}},
			"2452",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testutil.NewFakeSource(tt.page)
			d, err := delta.NewResolver(src, nil).Resolve(context.Background(), tt.local)
			require.NoError(t, err)
			assert.Equal(t, tt.remote, d.Remote)
			assert.Equal(t, tt.update, d.UpdateAvailable)
			assert.Equal(t, []int{1}, src.Calls())
		})
	}
}

func TestResolver_Failures(t *testing.T) {
	t.Run("request error", func(t *testing.T) {
		src := testutil.NewFakeSource()
		cause := &source.Error{Code: source.CodeConnectivity, Page: 1, Err: errors.New("refused")}
		src.FailPage(1, cause)

		d, err := delta.NewResolver(src, nil).Resolve(context.Background(), "2451")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.False(t, d.UpdateAvailable)
	})

	t.Run("empty page", func(t *testing.T) {
		src := testutil.NewFakeSource()
		_, err := delta.NewResolver(src, nil).Resolve(context.Background(), "2451")
		assert.ErrorIs(t, err, delta.ErrNoRemoteData)
	})
}
