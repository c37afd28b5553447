package codegen

import "github.com/fatbrother/toyc-go/lang/ast"

// Program lowers an entire translation unit (§4.3.4): struct definitions,
// function signatures and globals are registered in a first pass, then
// every function body is lowered in a second pass, so a function body may
// refer to a struct, function or global introduced later in the same
// file. The first pass is a single walk in source order: a declaration
// in it sees only the names registered before it.
func (c *Context) Program(chunk *ast.Chunk) error {
	for _, d := range chunk.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			if err := c.lowerStruct(n); err != nil {
				return err
			}
		case *ast.FuncDecl:
			if err := c.declareFunction(n); err != nil {
				return err
			}
		case *ast.GlobalDecl:
			if err := c.lowerGlobal(n); err != nil {
				return err
			}
		}
	}

	for _, d := range chunk.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			if err := c.defineFunction(fn); err != nil {
				return err
			}
		}
	}
	return c.Errors.Err()
}
