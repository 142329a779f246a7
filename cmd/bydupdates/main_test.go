package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalc_Table(t *testing.T) {
	out, err := run(t, "calc", "--battery", "60", "--current", "20", "--target", "80")
	require.NoError(t, err)

	assert.Contains(t, out, "Custom Vehicle, 60 kWh: 20% to 80% adds 36.0 kWh")
	assert.Contains(t, out, "CHARGER")
	assert.Contains(t, out, "PER 100 KM")
}

func TestCalc_JSON(t *testing.T) {
	out, err := run(t, "calc", "--preset", "BYD Atto 3", "--json")
	require.NoError(t, err)

	var body struct {
		Session struct {
			Preset     string  `json:"preset"`
			BatteryKWh float64 `json:"battery_kwh"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "BYD Atto 3", body.Session.Preset)
	assert.Equal(t, 60.5, body.Session.BatteryKWh)
}

func TestLifespan(t *testing.T) {
	out, err := run(t, "lifespan")
	require.NoError(t, err)
	assert.Contains(t, out, "Estimated battery lifespan: 10.0 years")

	out, err = run(t, "lifespan", "--charging-type", "fast", "--charge-level", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Estimated battery lifespan: 7.0 years")
	assert.Contains(t, out, "-1.5 years: Mostly DC fast charging")
}

func TestTOC(t *testing.T) {
	file := filepath.Join(t.TempDir(), "post.html")
	require.NoError(t, os.WriteFile(file, []byte("<h2>Range</h2><p>x</p><h3>Battery</h3>"), 0644))

	out, err := run(t, "toc", file)
	require.NoError(t, err)
	assert.Equal(t, "- Range (#range)\n  - Battery (#battery)\n", out)

	out, err = run(t, "toc", "--html", file)
	require.NoError(t, err)
	assert.Contains(t, out, `<h2 id="range">Range</h2>`)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Site scaffolded in "+dir)
	assert.FileExists(t, filepath.Join(dir, "site.yaml"))

	_, err = run(t, "init", dir)
	assert.Error(t, err)
}

func TestBuild_RequiresEndpoint(t *testing.T) {
	t.Setenv("WORDPRESS_API_URL", "")
	_, err := run(t, "build", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
