// Package main реализует multichecker для статического анализа кода проекта.
//
// # Запуск
//
// Проверка всего проекта:
//
//	go run cmd/staticlint/main.go ./...
//
// Или соберите бинарный файл:
//
//	go build -o staticlint cmd/staticlint/main.go
//	./staticlint ./internal/handler
//
// # Состав анализаторов
//
//   - printf, shadow, structtag, unusedresult из
//     golang.org/x/tools/go/analysis/passes
//   - все анализаторы класса SA из staticcheck.io
//   - ST1003 (именование) и QF1001 (упрощение булевых выражений)
//   - noosexit: собственный анализатор, запрещающий прямой вызов
//     os.Exit в функции main пакета main
//
// # noosexit
//
// Прямой os.Exit в main обрывает процесс мимо defer и graceful shutdown,
// поэтому анализатор его запрещает. Вызовы внутри горутин и замыканий
// не считаются: они не обрывают main напрямую.
package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

// noOsExitAnalyzer запрещает os.Exit в функции main пакета main
var noOsExitAnalyzer = &analysis.Analyzer{
	Name: "noosexit",
	Doc:  "запрещает использование os.Exit в функции main пакета main",
	Run:  runNoOsExit,
}

func runNoOsExit(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
				continue
			}
			inspectMainBody(fn.Body, pass)
		}
	}

	return nil, nil
}

// inspectMainBody обходит тело main, не заходя в замыкания и горутины
func inspectMainBody(body *ast.BlockStmt, pass *analysis.Pass) {
	ast.Inspect(body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncLit, *ast.GoStmt, *ast.DeferStmt:
			// вызовы отсюда не обрывают main напрямую
			return false
		case *ast.CallExpr:
			if isOsExit(node) {
				pass.Reportf(node.Pos(), "использование os.Exit в функции main запрещено")
			}
		}
		return true
	})
}

func isOsExit(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == "os" && sel.Sel.Name == "Exit"
}

func main() {
	checks := []*analysis.Analyzer{
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		unusedresult.Analyzer,
		noOsExitAnalyzer,
	}

	// Все SA-анализаторы из staticcheck
	for _, v := range staticcheck.Analyzers {
		if strings.HasPrefix(v.Analyzer.Name, "SA") {
			checks = append(checks, v.Analyzer)
		}
	}

	// Точечные проверки стиля
	for _, v := range stylecheck.Analyzers {
		if v.Analyzer.Name == "ST1003" {
			checks = append(checks, v.Analyzer)
		}
	}
	for _, v := range quickfix.Analyzers {
		if v.Analyzer.Name == "QF1001" {
			checks = append(checks, v.Analyzer)
		}
	}

	multichecker.Main(checks...)
}
