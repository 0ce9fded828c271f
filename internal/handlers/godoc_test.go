package handlers

import (
	"encoding/json"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/loki1512/MS-Fitness-Gym/docs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routerAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)

// isGinEndpoint matches methods shaped like func (h *X) Name(c *gin.Context).
func isGinEndpoint(fn *ast.FuncDecl) bool {
	if fn.Recv == nil || !fn.Name.IsExported() || len(fn.Type.Params.List) != 1 {
		return false
	}
	star, ok := fn.Type.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "gin"
}

func receiverName(fn *ast.FuncDecl) string {
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

func TestEndpointsCarrySwaggerAnnotations(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	checked := 0
	for _, path := range files {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		src, err := os.ReadFile(path)
		require.NoError(t, err)
		file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
		require.NoError(t, err)

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || !isGinEndpoint(fn) || receiverName(fn) == "BaseHandler" {
				continue
			}
			checked++

			name := receiverName(fn) + "." + fn.Name.Name
			if !assert.NotNil(t, fn.Doc, "%s has no godoc block", name) {
				continue
			}
			match := routerAnnotation.FindStringSubmatch(fn.Doc.Text())
			if !assert.NotNil(t, match, "%s has no @Router annotation", name) {
				continue
			}

			methods, ok := doc.Paths[match[1]]
			if assert.True(t, ok, "%s: %s missing from docs", name, match[1]) {
				assert.Contains(t, methods, strings.ToLower(match[2]), "%s: %s %s missing from docs", name, match[2], match[1])
			}
		}
	}
	assert.NotZero(t, checked)
}
