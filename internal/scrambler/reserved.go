package scrambler

// DeclType records how a name entered a scope.
type DeclType string

const (
	DeclVar      DeclType = "var"
	DeclConst    DeclType = "const"
	DeclDefun    DeclType = "defun"
	DeclLambda   DeclType = "lambda" // name of a function expression, visible inside it only
	DeclArgument DeclType = "arg"
	DeclCatch    DeclType = "catch"
)

// --- Names generated identifiers must avoid ---
// Keywords, atoms and ES3 reserved words are rejected by the token tables.
// These are the ES5 strict-mode additions and the names with special
// meaning at runtime.
var reservedNames = map[string]bool{
	"implements": true, "interface": true, "let": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true,
	"yield": true,

	"arguments": true, "eval": true, "this": true, "undefined": true,
	"NaN": true, "Infinity": true,
}

func isReserved(name string) bool {
	return reservedNames[name]
}
