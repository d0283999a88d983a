package compiler

// File is a parsed compilation unit.
type File struct {
	Package    string
	PackagePos Position
	Types      []*TypeDecl
}

// TypeDecl is a class declaration.
type TypeDecl struct {
	Pos       Position
	Modifiers []string
	Name      string
	Members   []*MethodDecl
}

// MethodDecl is a no-argument member with an empty body.
type MethodDecl struct {
	Pos       Position
	Modifiers []string
	Result    string
	Name      string
}
