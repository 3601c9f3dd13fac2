package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/zhangxiaofan-star/AICam/graph"
)

func TestParseLoadMode(t *testing.T) {
	tests := []struct {
		input   string
		want    graph.LoadMode
		wantErr bool
	}{
		{"full-rebuild", graph.FullRebuild, false},
		{"incremental", graph.Incremental, false},
		{"  Full-Rebuild ", graph.FullRebuild, false},
		{"replace", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		mode, err := parseLoadMode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, mode)
	}
}

func TestSetupLogger(t *testing.T) {
	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(nil, set, nil)
	}

	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "WARN", "Error"} {
			assert.NoError(t, setupLogger(newContext(level)), "level %q", level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := setupLogger(newContext("trace"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestLoadCommandFlags(t *testing.T) {
	var loadCmd *cli.Command
	app := &cli.App{
		Name: "aicam",
		Commands: []*cli.Command{
			{
				Name:   "load",
				Action: func(c *cli.Context) error { return nil },
				Flags: append(connectionFlags(),
					&cli.StringFlag{Name: "processes", Required: true},
					&cli.StringFlag{Name: "tools", Required: true},
				),
			},
		},
	}
	loadCmd = app.Commands[0]

	t.Run("processes is required", func(t *testing.T) {
		err := app.Run([]string{"aicam", "load", "--tools", "/tmp/tools.csv"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "processes")
	})

	t.Run("neo4j-uri has default value", func(t *testing.T) {
		var uriFlag *cli.StringFlag
		for _, f := range loadCmd.Flags {
			if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "neo4j-uri" {
				uriFlag = sf
				break
			}
		}
		require.NotNil(t, uriFlag)
		assert.Equal(t, "bolt://localhost:7687", uriFlag.Value)
	})
}
