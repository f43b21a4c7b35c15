package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestNewMainFlags(t *testing.T) {
	emptyLookupEnvFunc := func(key string) (string, bool) {
		return "", false
	}
	newMainFlagsTests := []struct {
		osArgs        []string
		lookupEnvFunc func(key string) (string, bool)
		want          mainFlags
	}{
		{ // defaults
			lookupEnvFunc: emptyLookupEnvFunc,
			want: mainFlags{
				port: 8000,
			},
		},
		{ // all command line
			osArgs: []string{
				"grab",
				"-port=8001",
				"-data-source=postgres://u:p@localhost/grab_db",
				"-words-file=/usr/share/dict/words",
				"-debug-messages",
			},
			lookupEnvFunc: emptyLookupEnvFunc,
			want: mainFlags{
				port:          8001,
				databaseURL:   "postgres://u:p@localhost/grab_db",
				wordsFile:     "/usr/share/dict/words",
				debugMessages: true,
			},
		},
		{ // all environment
			osArgs: []string{"grab"},
			lookupEnvFunc: func(key string) (string, bool) {
				envVars := map[string]string{
					"PORT":           "8002",
					"DATABASE_URL":   "mongodb://localhost:27017",
					"WORDS_FILE":     "words.txt",
					"DEBUG_MESSAGES": "",
				}
				v, ok := envVars[key]
				return v, ok
			},
			want: mainFlags{
				port:          8002,
				databaseURL:   "mongodb://localhost:27017",
				wordsFile:     "words.txt",
				debugMessages: true,
			},
		},
		{ // command line overrides environment
			osArgs: []string{
				"grab",
				"-port=8003",
			},
			lookupEnvFunc: func(key string) (string, bool) {
				if key == "PORT" {
					return "8002", true
				}
				return "", false
			},
			want: mainFlags{
				port: 8003,
			},
		},
	}
	for i, test := range newMainFlagsTests {
		got := newMainFlags(test.osArgs, test.lookupEnvFunc)
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("Test %v:\nwanted: %#v\ngot:    %#v", i, test.want, got)
		}
	}
}

func TestUsage(t *testing.T) {
	var m mainFlags
	fs := m.newFlagSet(func(key string) (string, bool) {
		return "", false
	})
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	usage(fs)
	got := buf.String()
	for _, want := range []string{"PORT", "DATABASE_URL", "WORDS_FILE", "DEBUG_MESSAGES", "-port"} {
		if !strings.Contains(got, want) {
			t.Errorf("wanted usage to mention %v:\n%v", want, got)
		}
	}
}
