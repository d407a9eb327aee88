package extract

import "github.com/coolcline/codeindex/internal/store"

// kindBySuffix maps the kind suffix of a definition.<kind> /
// name.definition.<kind> capture pair to the closed Symbol.Type
// vocabulary (spec.md §3, §4.3).
var kindBySuffix = map[string]string{
	"function":            store.TypeFunction,
	"method":               store.TypeMethod,
	"class":                store.TypeClass,
	"interface":            store.TypeInterface,
	"struct":               store.TypeStruct,
	"enum":                 store.TypeEnum,
	"variable":             store.TypeVariable,
	"constant":             store.TypeConstant,
	"property":             store.TypeProperty,
	"field":                store.TypeField,
	"namespace":            store.TypeNamespace,
	"module":               store.TypeModule,
	"type":                 store.TypeType,
	"trait":                store.TypeTrait,
	"macro":                store.TypeMacro,
	"nested.method":        store.TypeNestedMethod,
	"nested.class":         store.TypeNestedClass,
	"nested.struct":        store.TypeNestedStruct,
	"nested.enum":          store.TypeNestedEnum,
	"namespaced.class":     store.TypeNamespacedClass,
	"namespaced.function":  store.TypeNamespacedFunc,
	"struct.method":        store.TypeStructMethod,
	"interface.method":     store.TypeInterfaceMethod,
	"embedded.field":       store.TypeEmbeddedField,
	"constructor":          store.TypeConstructor,
}

// kindForSuffix resolves a capture kind suffix to a Symbol.Type value,
// falling back to TypeType for anything outside the mapped set (a
// grammar query is free to label captures with kinds we don't
// anticipate; the core never rejects a file over it).
func kindForSuffix(suffix string) string {
	if k, ok := kindBySuffix[suffix]; ok {
		return k
	}
	return store.TypeType
}
