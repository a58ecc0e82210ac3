package codegen

import (
	"sort"
	"strings"
)

// BuiltinFunctions are helpers every inn program may call without
// declaring them. A helper's C definition is emitted only when the program
// refers to its name.
var BuiltinFunctions = map[string]BuiltinFunction{
	"print": {
		Name:       "print",
		ReturnType: "void",
		Parameters: []BuiltinParameter{{Name: "message", Type: "string"}},
		CName:      "inn_print",
		Body:       `fputs(message, stdout);`,
	},
	"println": {
		Name:       "println",
		ReturnType: "void",
		Parameters: []BuiltinParameter{{Name: "message", Type: "string"}},
		CName:      "inn_println",
		Body:       `puts(message);`,
	},
	"print_int": {
		Name:       "print_int",
		ReturnType: "void",
		Parameters: []BuiltinParameter{{Name: "value", Type: "int"}},
		CName:      "inn_print_int",
		Body:       `printf("%d\n", value);`,
	},
	"print_float": {
		Name:       "print_float",
		ReturnType: "void",
		Parameters: []BuiltinParameter{{Name: "value", Type: "float"}},
		CName:      "inn_print_float",
		Body:       `printf("%g\n", value);`,
	},
	"exit": {
		Name:       "exit",
		ReturnType: "void",
		Parameters: []BuiltinParameter{{Name: "code", Type: "int"}},
		CName:      "inn_exit",
		Body:       `exit(code);`,
	},
}

// BuiltinFunction represents a built-in function definition
type BuiltinFunction struct {
	Name       string
	ReturnType string
	Parameters []BuiltinParameter
	CName      string
	Body       string
}

// BuiltinParameter represents a parameter of a built-in function
type BuiltinParameter struct {
	Name string
	Type string
}

// GetBuiltinFunction returns the built-in function definition
func GetBuiltinFunction(name string) (BuiltinFunction, bool) {
	fn, exists := BuiltinFunctions[name]
	return fn, exists
}

// mathFunctions live in libm; calling one means the program must be linked
// with -lm.
var mathFunctions = map[string]bool{
	"sqrt": true, "pow": true, "exp": true, "log": true, "log10": true,
	"sin": true, "cos": true, "tan": true, "atan2": true,
	"floor": true, "ceil": true, "fabs": true, "fmod": true,
}

// generateBuiltins emits the C definitions of the used helpers in name
// order so output is deterministic.
func generateBuiltins(used map[string]bool) string {
	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fn := BuiltinFunctions[name]
		params := make([]string, len(fn.Parameters))
		for i, p := range fn.Parameters {
			params[i] = cScalarType(p.Type) + " " + p.Name
		}
		b.WriteString("static " + cScalarType(fn.ReturnType) + " " + fn.CName + "(" + strings.Join(params, ", ") + ") {\n")
		b.WriteString("\t" + fn.Body + "\n")
		b.WriteString("}\n\n")
	}
	return b.String()
}
