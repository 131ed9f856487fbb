package entity

// TypeRef is the canonical textual form of a C/C++ type as surfaced by the
// indexer (e.g. "float const *", "std::string"). The core never attempts
// to model C++ type algebra beyond this string plus the handful of
// booleans generators most commonly need; richer inspection is left to
// the generator, which can re-parse the canonical name if required.
type TypeRef struct {
	// CanonicalName is the fully resolved, sugar-free spelling as reported
	// by the indexer (typedefs and using-aliases resolved).
	CanonicalName string
	// Name is the as-written spelling (before canonicalization).
	Name      string
	IsConst   bool
	IsPointer bool
	IsRef     bool
}

// Base is a small base entry used by a class's base list.
type Base struct {
	Name   string
	Access AccessSpecifier
}
