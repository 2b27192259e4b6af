// Package dsl provides the schema library for typeprovider.
//
// Overview
//   - Constructors: String/Number/Integer/Boolean/Null/Any/Literal/Enum/Date,
//     Array/Record, Object()/ObjectOf[T](), Union/Intersect/Optional, Raw.
//   - Every constructor returns *Schema[T], where T is the static type handlers
//     receive after decoding. Schemas are immutable; build them once per route.
//   - Transform[E, D](inner).Decode(f).Encode(g) layers a bidirectional
//     transform over inner: E is checked on the wire, D is what handlers see.
//     A transform nested in an object property changes only that property.
//   - Compile(env) yields a typeprovider.Checker tagged KindTransform when any
//     transform appears in the tree.
//
// Entry points
//   - Object(): create an object builder; chain Field/Required/Unknown* then MustBuild()/Build.
//   - ObjectOf[T](): typed builder; at the end call MustBind()/Bind to construct *Schema[T].
//   - Raw(doc)/RawJSON/RawYAML: wrap a JSON Schema document (santhosh-tekuri/jsonschema).
//
// File layout (roles)
//   - node.go, schema.go: node/compiled contracts, Schema[T] and the checker.
//   - primitives.go: scalar kinds, literal and enum.
//   - array.go: Array and Record.
//   - object_builder.go, object_core.go, object_typed_builder.go: objects and struct binding.
//   - union.go: Union, Intersect and Optional.
//   - transform.go: Transform and Codec.
//   - raw.go: JSON Schema documents.
//   - values.go, bind.go: value normalization and binding to Go types.
//
// Coercion (Convert) is applied by the pipeline to non-body request parts only:
// numeric strings become numbers, "true"/"false"/"1"/"0" become booleans, a lone
// value becomes a one-element array, and values that cannot be converted are
// left for the check to reject.
//
// Example (quickstart)
//
//	type Query struct {
//	    Page  int64  `json:"page"`
//	    Since time.Time `json:"since"`
//	}
//
//	q := g.ObjectOf[Query]().
//	    Field("page", g.Integer(g.NumberOptions{Minimum: g.Ptr(1.0)})).Required().
//	    Field("since", codec.TimeRFC3339()).
//	    MustBind()
//
//	p := typeprovider.New(typeprovider.DefaultOptions())
//	validate, _ := p.MakeValidator(q, typeprovider.PartQuerystring)
//	res := validate(map[string]any{"page": "2"})
//	query, _ := q.Bind(res.Value) // Query{Page: 2}
//
// JSON Schema output hints
//
//	sch, _ := q.JSONSchema()
//	// UnknownStrict => additionalProperties=false,
//	// UnknownStrip/UnknownPassthrough => additionalProperties=true
package dsl
