// Package model holds the source-language program model the code splitter
// consults: declared types, their methods and fields, and the map that ties
// those entities to the JavaScript names and statements produced for them.
// The splitter reads this model but never mutates it.
package model

// DeclaredType is a class from the source program.
type DeclaredType struct {
	Name  string
	Super *DeclaredType // nil for the root type

	// NeedsVtable is set when instances of the type dispatch through a
	// prototype, meaning method-install statements must follow the type's
	// registration statement at load time.
	NeedsVtable bool
}

// Method is a method or constructor of a declared type.
type Method struct {
	Name      string
	Enclosing *DeclaredType

	// IsConstructor marks the constructor sub-kind. Registration statements
	// reference constructors in their variable-length tail.
	IsConstructor bool

	// NeedsVtable is set for instance methods installed into a prototype.
	// Static methods and constructors leave it false.
	NeedsVtable bool
}

// Field is a field of a declared type. StringInit records the string
// literal the field is statically initialized from, when there is one; a
// live such field implies its string is live (a load-order dependency the
// liveness analysis guarantees, not something the splitter checks).
type Field struct {
	Name      string
	Enclosing *DeclaredType
	StringInit string
	HasStringInit bool
}
