package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagsRegisteredWithSpecShorthands(t *testing.T) {
	flags := rootCmd.Flags()

	cases := map[string]string{
		"dryrun":    "d",
		"hardlinks": "h",
		"indexfile": "i",
		"paranoid":  "p",
		"quiet":     "q",
	}
	for name, shorthand := range cases {
		f := flags.Lookup(name)
		if assert.NotNil(t, f, "flag %q must be registered", name) {
			assert.Equal(t, shorthand, f.Shorthand, "flag %q shorthand", name)
		}
	}
}

func TestRequiresAtLeastOneDirectoryArgument(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, nil))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"."}))
}
