package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliceUnit = `package typekeeper.vault.credentials;

public final class alice {
  public static final void secret123() {
  }
}
`

func TestParse_Unit(t *testing.T) {
	f, diags := Parse(aliceUnit)
	require.Empty(t, diags)

	assert.Equal(t, "typekeeper.vault.credentials", f.Package)
	require.Len(t, f.Types, 1)

	td := f.Types[0]
	assert.Equal(t, "alice", td.Name)
	assert.Equal(t, []string{"public", "final"}, td.Modifiers)
	require.Len(t, td.Members, 1)
	assert.Equal(t, "secret123", td.Members[0].Name)
	assert.Equal(t, "void", td.Members[0].Result)
	assert.Equal(t, []string{"public", "static", "final"}, td.Members[0].Modifiers)
}

func TestParse_MembersInDeclarationOrder(t *testing.T) {
	f, diags := Parse("package p; class a { void z() {} void y() {} static void x() {} }")
	require.Empty(t, diags)
	require.Len(t, f.Types[0].Members, 3)

	var names []string
	for _, m := range f.Types[0].Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"z", "y", "x"}, names)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "missing package", src: "class a {}", want: `expected "package"`},
		{name: "reserved type name", src: "package p; class class {}", want: `reserved word "class"`},
		{name: "reserved member name", src: "package p; class a { void while() {} }", want: `reserved word "while"`},
		{name: "illegal character", src: "package p; class pwd@1 {}", want: `expected '{'`},
		{name: "leading digit", src: "package p; class 1bob {}", want: `illegal token "1bob"`},
		{name: "missing brace", src: "package p; class a { void b() {}", want: "unexpected end of file"},
		{name: "arguments not allowed", src: "package p; class a { void b(c) {} }", want: `expected ')'`},
		{name: "unknown modifier", src: "package p; private class a {}", want: `expected "class"`},
		{name: "repeated modifier", src: "package p; public public class a {}", want: `repeated modifier "public"`},
		{name: "missing semicolon", src: "package p class a {}", want: "expected ';'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse(tt.src)
			require.NotEmpty(t, diags)
			assert.Contains(t, diags[0].Message, tt.want)
			assert.NotZero(t, diags[0].Pos.Line)
		})
	}
}
