package loader

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

const directivePrefix = "//arch:"

var errorIface = types.Universe.Lookup("error").Type().Underlying().(*types.Interface)

// extract returns every package-level named type declared in pkg.
func extract(pkg *packages.Package) []arch.Type {
	var out []arch.Type
	index := make(map[string]int)

	for i, file := range pkg.Syntax {
		filename := fileName(pkg, i, file)
		test := strings.HasSuffix(filename, "_test.go")
		imports := fileImports(file)

		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				t := arch.Type{
					Package:    pkg.PkgPath,
					Name:       ts.Name.Name,
					Kind:       kindOf(ts),
					File:       filepath.Base(filename),
					Test:       test,
					Exported:   ast.IsExported(ts.Name.Name),
					Imports:    imports,
					Directives: append(directives(gd.Doc), directives(ts.Doc)...),
				}
				t.Fields, t.Embeds = members(ts.Type)
				t.References = references(pkg.TypesInfo, ts.Type, nil)
				t.ImplementsError = implementsError(pkg.Types, ts.Name.Name)

				index[t.Name] = len(out)
				out = append(out, t)
			}
		}
	}

	// Methods may live in any file of the package.
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			i, ok := index[receiverName(fd.Recv.List[0].Type)]
			if !ok {
				continue
			}
			out[i].Methods = append(out[i].Methods, fd.Name.Name)
			out[i].References = references(pkg.TypesInfo, fd, out[i].References)
		}
	}

	for i := range out {
		slices.Sort(out[i].Methods)
	}
	return out
}

func fileName(pkg *packages.Package, i int, file *ast.File) string {
	if pkg.Fset != nil {
		if name := pkg.Fset.Position(file.Pos()).Filename; name != "" {
			return name
		}
	}
	if i < len(pkg.CompiledGoFiles) {
		return pkg.CompiledGoFiles[i]
	}
	return ""
}

func fileImports(file *ast.File) []string {
	imports := make([]string, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imports = append(imports, path)
	}
	return imports
}

func kindOf(ts *ast.TypeSpec) arch.Kind {
	if ts.Assign.IsValid() {
		return arch.KindAlias
	}
	switch ts.Type.(type) {
	case *ast.StructType:
		return arch.KindStruct
	case *ast.InterfaceType:
		return arch.KindInterface
	case *ast.FuncType:
		return arch.KindFunc
	default:
		return arch.KindOther
	}
}

func members(expr ast.Expr) ([]arch.Field, []string) {
	var (
		fields []arch.Field
		embeds []string
	)
	switch t := expr.(type) {
	case *ast.StructType:
		for _, f := range t.Fields.List {
			typ := types.ExprString(f.Type)
			if len(f.Names) == 0 {
				embeds = append(embeds, strings.TrimPrefix(typ, "*"))
				continue
			}
			tag := ""
			if f.Tag != nil {
				tag, _ = strconv.Unquote(f.Tag.Value)
			}
			for _, n := range f.Names {
				fields = append(fields, arch.Field{Name: n.Name, Type: typ, Tag: tag, Exported: n.IsExported()})
			}
		}
	case *ast.InterfaceType:
		for _, m := range t.Methods.List {
			if len(m.Names) == 0 {
				embeds = append(embeds, types.ExprString(m.Type))
			}
		}
	}
	return fields, embeds
}

// references appends every "importpath.Name" used inside node to refs,
// keeping first-use order and skipping duplicates.
func references(info *types.Info, node ast.Node, refs []string) []string {
	if info == nil || node == nil {
		return refs
	}
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		seen[r] = true
	}
	ast.Inspect(node, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		pkgName, ok := info.Uses[ident].(*types.PkgName)
		if !ok {
			return true
		}
		ref := pkgName.Imported().Path() + "." + sel.Sel.Name
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
		return false
	})
	return refs
}

func directives(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	var out []string
	for _, c := range doc.List {
		if d, ok := strings.CutPrefix(c.Text, directivePrefix); ok {
			out = append(out, strings.TrimSpace(d))
		}
	}
	return out
}

func receiverName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func implementsError(pkg *types.Package, name string) bool {
	if pkg == nil {
		return false
	}
	obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return false
	}
	t := obj.Type()
	if types.IsInterface(t) {
		return false
	}
	if named, ok := t.(*types.Named); ok && named.TypeParams().Len() > 0 {
		return false
	}
	return types.Implements(t, errorIface) || types.Implements(types.NewPointer(t), errorIface)
}
