package flagx

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterFor(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "short flag with separate value",
			args: []string{"-c", "conf.json", "-r", "/tmp"},
			want: []string{"-c", "conf.json"},
		},
		{
			name: "long flag with equals",
			args: []string{"--config=alt.json", "-r", "/tmp"},
			want: []string{"--config=alt.json"},
		},
		{
			name: "unknown flags ignored",
			args: []string{"-x", "1", "--y=2", "positional"},
			want: []string{},
		},
		{
			name: "flag without value at end",
			args: []string{"-c"},
			want: []string{"-c"},
		},
		{
			name: "next dash token is not a value",
			args: []string{"-c", "--config=alt.json"},
			want: []string{"-c", "--config=alt.json"},
		},
		{
			name: "value with equals form may start with a dash",
			args: []string{"--config=--weird.json"},
			want: []string{"--config=--weird.json"},
		},
		{
			name: "repeated flag keeps order",
			args: []string{"-c", "one.json", "-c", "two.json"},
			want: []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name: "empty args",
			args: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("t", flag.ContinueOnError)
			fs.String("c", "", "")
			fs.String("config", "", "")
			assert.Equal(t, tt.want, FilterFor(fs, tt.args))
		})
	}
}

func TestFilterFor_BooleanFlagsTakeNoValue(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.String("r", "", "")
	fs.Bool("s3-path-style", false, "")

	got := FilterFor(fs, []string{"-s3-path-style", "positional", "-r", "/tmp", "-unknown", "x", "--s3-path-style=false"})
	assert.Equal(t, []string{"-s3-path-style", "-r", "/tmp", "--s3-path-style=false"}, got)
}

func TestJSONConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-c", "/path/short.json"}, want: "/path/short.json"},
		{name: "long", args: []string{"-config", "/path/long.json"}, want: "/path/long.json"},
		{name: "double dash equals", args: []string{"--config=/path/eq.json"}, want: "/path/eq.json"},
		{name: "unknown flags ignored", args: []string{"-x", "1", "-y", "2"}, want: ""},
		{name: "last wins", args: []string{"-c", "/path/1.json", "-config", "/path/2.json"}, want: "/path/2.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JSONConfigPath(tt.args))
		})
	}
}
