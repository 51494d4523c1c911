package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallRun(local bool) runOptions {
	return runOptions{Workers: 4, Ops: 3000, MaxSize: 700, Remote: 0.5, Seed: 7, Local: local}
}

func TestRunStress(t *testing.T) {
	for _, tc := range []struct {
		name  string
		local bool
	}{
		{name: "processor caches"},
		{name: "local caches", local: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opts := smallRun(tc.local)
			r, err := runStress(opts)
			require.NoError(t, err)

			assert.Zero(t, r.Corrupted)
			assert.Zero(t, r.Failed)
			assert.EqualValues(t, opts.Workers*opts.Ops, r.Allocs)
			assert.Equal(t, r.Allocs, r.LocalFrees+r.RemoteFrees, "every block is freed")
			assert.Positive(t, r.RemoteFrees)
			assert.Positive(t, r.Large)
			assert.GreaterOrEqual(t, r.PagesMapped, r.PagesUnmapped)
			if tc.local {
				assert.Equal(t, r.PagesMapped, r.PagesUnmapped, "closed caches leave no page behind")
				assert.Equal(t, "local", r.Mode)
			}
		})
	}
}

func TestRunStressSingleWorkerFreesEverythingLocally(t *testing.T) {
	r, err := runStress(runOptions{Workers: 1, Ops: 500, MaxSize: 64, Remote: 1, Seed: 1})
	require.NoError(t, err)
	assert.Zero(t, r.RemoteFrees)
	assert.EqualValues(t, 500, r.LocalFrees)
}

func TestRunOptionsValidate(t *testing.T) {
	for name, opts := range map[string]runOptions{
		"no workers":      {Workers: 0, Ops: 1, MaxSize: 8},
		"negative ops":    {Workers: 1, Ops: -1, MaxSize: 8},
		"zero max size":   {Workers: 1, Ops: 1, MaxSize: 0},
		"remote above 1":  {Workers: 1, Ops: 1, MaxSize: 8, Remote: 1.5},
		"negative remote": {Workers: 1, Ops: 1, MaxSize: 8, Remote: -0.1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := runStress(opts)
			require.Error(t, err)
		})
	}
}

func TestRunCommandJSON(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"run", "--workers", "2", "--ops", "200", "--json"})

	out, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	assert.EqualValues(t, 400, r.Allocs+r.Failed)
	assert.Equal(t, 2, r.Workers)
}

func TestRunCommandText(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"run", "-w", "2", "-n", "2000", "--remote", "0"})

	out, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	assert.Contains(t, out, "Allocations: 4,000")
	assert.Contains(t, out, "0 remote")
}
