// Package types implements the hash-consed type table: the single source
// of truth for every type that appears in a ToyC translation unit. Two
// requests for structurally identical types always return the same Idx,
// exactly as the spec's §3.1/§4.2 require, and backend (LLVM) types are
// materialized lazily and cached on first Realize call.
//
// The table's factory API is deliberately narrow (Primitive, Pointer,
// Array, Struct, Qualified, Unqualify, IsConst, IsVolatile, Realize,
// CommonType) so that callers — the parser actions and the code generator
// — can never construct a type that bypasses interning.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dolthub/swiss"
	"tinygo.org/x/go-llvm"
)

// Idx is an opaque handle into the Table. The zero value, Invalid, denotes
// "no type".
type Idx uint32

// Invalid is the reserved sentinel meaning "no type".
const Invalid Idx = 0

// Kind discriminates the variant a TypeNode holds.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindPointer
	KindArray
	KindStruct
	KindQualified
)

// PrimKind enumerates the primitive type kinds.
type PrimKind uint8

//nolint:revive
const (
	Void PrimKind = iota
	Bool
	Char
	Short
	Int
	Long
	Float
	Double
)

func (k PrimKind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	}
	return "?"
}

// rank gives the integer promotion rank used by CommonType (higher wins).
func (k PrimKind) rank() int {
	switch k {
	case Bool:
		return 0
	case Char:
		return 1
	case Short:
		return 2
	case Int:
		return 3
	case Long:
		return 4
	}
	return -1
}

func (k PrimKind) isFloating() bool { return k == Float || k == Double }
func (k PrimKind) isInteger() bool  { return !k.isFloating() && k != Void }

// Qualifier is a bitset of type qualifiers.
type Qualifier uint8

const (
	QualNone     Qualifier = 0
	QualConst    Qualifier = 1 << 0
	QualVolatile Qualifier = 1 << 1
)

// VLADim is the sentinel dimension value for the outermost dimension of a
// variable-length array; the runtime extent is carried by the AST, not the
// type (§3.1).
const VLADim = -1

// Member describes one named field of a struct, in declaration order.
type Member struct {
	Name string
	Type Idx
}

// node is the tagged-variant record backing one Idx. Only the fields
// relevant to Kind are meaningful; this single concrete struct (rather
// than an interface per kind) is what lets the Table own a flat, indexable
// vector instead of a forest of heap pointers.
type node struct {
	kind Kind

	prim PrimKind // KindPrimitive

	pointee Idx // KindPointer
	level   int

	elem Idx   // KindArray
	dims []int // KindArray; dims[0] may be VLADim

	structName string   // KindStruct
	members    []Member // KindStruct; nil => opaque/forward-declared
	complete   bool

	base  Idx       // KindQualified
	quals Qualifier // KindQualified

	backend    llvm.Type
	hasBackend bool
}

// StructMeta is the side table the spec's §3.2 describes: the ordered
// member list plus an O(1) name-to-index map, populated once the struct's
// member list is known.
type StructMeta struct {
	Name       string
	Members    []Member
	nameToIdx  *swiss.Map[string, int]
}

// Index returns the member's position in Members, or -1 if no such member.
func (m *StructMeta) Index(name string) int {
	if m.nameToIdx == nil {
		return -1
	}
	if i, ok := m.nameToIdx.Get(name); ok {
		return i
	}
	return -1
}

// Table is the hash-consed type registry for one compilation. It owns a
// vector of type nodes and a map from a normalized structural key to the
// Idx of that node, so asking twice for "pointer to int" returns the same
// index (§3.1, invariant 1).
type Table struct {
	nodes []node
	byKey *swiss.Map[string, Idx]

	structs map[string]*StructMeta // by name, populated once members are known

	llctx *llvm.Context // used by Realize; may be nil until SetContext is called
}

// NewTable creates an empty, ready-to-use type table. index 0 is reserved
// (Invalid) so every real node has a positive Idx.
func NewTable() *Table {
	t := &Table{
		byKey:   swiss.NewMap[string, Idx](64),
		structs: make(map[string]*StructMeta),
	}
	t.nodes = append(t.nodes, node{}) // index 0 == Invalid, never looked up
	return t
}

// SetContext attaches the LLVM context used to materialize backend types.
// It must be called before the first Realize.
func (t *Table) SetContext(ctx *llvm.Context) { t.llctx = ctx }

func (t *Table) intern(key string, build func() node) Idx {
	if idx, ok := t.byKey.Get(key); ok {
		return idx
	}
	n := build()
	idx := Idx(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.byKey.Put(key, idx)
	return idx
}

func (t *Table) at(idx Idx) *node {
	if idx == Invalid || int(idx) >= len(t.nodes) {
		panic(fmt.Sprintf("types: invalid Idx %d", idx))
	}
	return &t.nodes[idx]
}

// Kind returns the variant tag of idx.
func (t *Table) Kind(idx Idx) Kind { return t.at(idx).kind }

// Primitive returns (interning if necessary) the type for the given
// primitive kind.
func (t *Table) Primitive(kind PrimKind) Idx {
	key := "prim:" + strconv.Itoa(int(kind))
	return t.intern(key, func() node { return node{kind: KindPrimitive, prim: kind} })
}

// Pointer returns the type "pointer to pointee with the given indirection
// level" (level >= 1). Per the canonicalization invariant, constructing a
// pointer to an existing Pointer(T, k) collapses to Pointer(T, level+k)
// rather than nesting pointer nodes.
func (t *Table) Pointer(pointee Idx, level int) Idx {
	if level < 1 {
		panic("types: pointer level must be >= 1")
	}
	if pn := t.at(pointee); pn.kind == KindPointer {
		return t.Pointer(pn.pointee, pn.level+level)
	}
	key := fmt.Sprintf("ptr:%d:%d", pointee, level)
	return t.intern(key, func() node {
		return node{kind: KindPointer, pointee: pointee, level: level}
	})
}

// Array returns the type "array of element with the given dimensions".
// dims must be non-empty; for a variable-length array the outermost
// dimension is VLADim. For an N-dimensional fixed array T[d1]...[dN], the
// canonical form chains element types, so Array(T, [d1, d2]) and
// Array(Array(T, [d2]), [d1]) denote the same Idx.
func (t *Table) Array(element Idx, dims []int) Idx {
	if len(dims) == 0 {
		panic("types: array must have at least one dimension")
	}
	if len(dims) > 1 {
		inner := t.Array(element, dims[1:])
		return t.Array(inner, dims[:1])
	}
	key := fmt.Sprintf("arr:%d:%d", element, dims[0])
	return t.intern(key, func() node {
		return node{kind: KindArray, elem: element, dims: []int{dims[0]}}
	})
}

// Struct returns the Idx for the named struct, creating an opaque
// (forward-declared) entry on first use. A later call with a non-nil
// members list completes that same index (§4.2: "first call with None
// creates an opaque entry; later call with Some(members) completes the
// same index"). Completing an already-complete struct with a different
// member list is a fatal error.
func (t *Table) Struct(name string, members []Member) (Idx, error) {
	key := "struct:" + name
	idx, existed := t.byKey.Get(key)
	if !existed {
		idx = Idx(len(t.nodes))
		t.nodes = append(t.nodes, node{kind: KindStruct, structName: name})
		t.byKey.Put(key, idx)
	}
	n := t.at(idx)
	if members == nil {
		return idx, nil
	}
	if n.complete {
		if !sameMembers(n.members, members) {
			return idx, fmt.Errorf("struct %q redefined with incompatible members", name)
		}
		return idx, nil
	}
	n.members = members
	n.complete = true

	meta := &StructMeta{Name: name, Members: members, nameToIdx: swiss.NewMap[string, int](uint32(len(members)))}
	for i, m := range members {
		meta.nameToIdx.Put(m.Name, i)
	}
	t.structs[name] = meta

	if n.hasBackend {
		// A forward reference was already realized as an opaque backend
		// struct (e.g. for a self-referential pointer); fill in its body now
		// instead of minting a new backend type, preserving the Idx<->backend
		// identity invariant 11.
		t.fillStructBody(idx)
	}
	return idx, nil
}

func sameMembers(a, b []Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StructMeta returns the side metadata for a completed struct, or nil if
// the struct is still opaque or unknown.
func (t *Table) StructMeta(idx Idx) *StructMeta {
	n := t.at(idx)
	if n.kind != KindStruct || !n.complete {
		return nil
	}
	return t.structs[n.structName]
}

// Qualified wraps base with the given qualifier flags. Qualifying with
// QualNone returns base unchanged (a Qualified node with no flags is never
// stored, per §3.1).
func (t *Table) Qualified(base Idx, flags Qualifier) Idx {
	if flags == QualNone {
		return base
	}
	if bn := t.at(base); bn.kind == KindQualified {
		// merge flags onto the same base rather than stacking wrappers
		return t.Qualified(bn.base, bn.quals|flags)
	}
	key := fmt.Sprintf("qual:%d:%d", base, flags)
	return t.intern(key, func() node {
		return node{kind: KindQualified, base: base, quals: flags}
	})
}

// Unqualify strips a Qualified wrapper if present, otherwise returns idx
// unchanged.
func (t *Table) Unqualify(idx Idx) Idx {
	if n := t.at(idx); n.kind == KindQualified {
		return n.base
	}
	return idx
}

// IsConst reports whether idx is (possibly transitively, through no more
// than one Qualified wrapper) const-qualified.
func (t *Table) IsConst(idx Idx) bool {
	n := t.at(idx)
	return n.kind == KindQualified && n.quals&QualConst != 0
}

// IsVolatile reports whether idx is volatile-qualified.
func (t *Table) IsVolatile(idx Idx) bool {
	n := t.at(idx)
	return n.kind == KindQualified && n.quals&QualVolatile != 0
}

// Pointee returns the pointee type of a Pointer type with the indirection
// level reduced by one (or the element type, if level was 1).
func (t *Table) Pointee(idx Idx) Idx {
	n := t.at(t.Unqualify(idx))
	if n.kind != KindPointer {
		panic("types: Pointee called on non-pointer type")
	}
	if n.level > 1 {
		return t.Pointer(n.pointee, n.level-1)
	}
	return n.pointee
}

// Element returns the element type of an Array type.
func (t *Table) Element(idx Idx) Idx {
	n := t.at(t.Unqualify(idx))
	if n.kind != KindArray {
		panic("types: Element called on non-array type")
	}
	return n.elem
}

// Dim returns the (possibly VLADim) outermost dimension of an Array type.
func (t *Table) Dim(idx Idx) int {
	n := t.at(t.Unqualify(idx))
	if n.kind != KindArray {
		panic("types: Dim called on non-array type")
	}
	return n.dims[0]
}

// IsVLA reports whether idx's outermost dimension is the runtime-sized
// sentinel.
func (t *Table) IsVLA(idx Idx) bool {
	n := t.at(t.Unqualify(idx))
	return n.kind == KindArray && n.dims[0] == VLADim
}

// PrimitiveKind returns the PrimKind of a primitive type.
func (t *Table) PrimitiveKind(idx Idx) PrimKind {
	n := t.at(t.Unqualify(idx))
	if n.kind != KindPrimitive {
		panic("types: PrimitiveKind called on non-primitive type")
	}
	return n.prim
}

// CommonType implements the usual arithmetic conversions (§4.2): if equal,
// return a; if both float, pick double over float; if one is float, pick
// the float; otherwise pick the integer of higher rank.
func (t *Table) CommonType(a, b Idx) Idx {
	if a == b {
		return a
	}
	ua, ub := t.Unqualify(a), t.Unqualify(b)
	na, nb := t.at(ua), t.at(ub)
	if na.kind != KindPrimitive || nb.kind != KindPrimitive {
		// non-arithmetic operand (e.g. pointer); caller is responsible for
		// validating this combination makes sense. Default to a.
		return a
	}
	pa, pb := na.prim, nb.prim
	switch {
	case pa.isFloating() && pb.isFloating():
		if pa == Double || pb == Double {
			return t.Primitive(Double)
		}
		return t.Primitive(Float)
	case pa.isFloating():
		return t.Primitive(pa)
	case pb.isFloating():
		return t.Primitive(pb)
	default:
		if pa.rank() >= pb.rank() {
			return t.Primitive(pa)
		}
		return t.Primitive(pb)
	}
}

// String renders a human-readable description of idx, mostly for
// diagnostics and tests.
func (t *Table) String(idx Idx) string {
	if idx == Invalid {
		return "<invalid>"
	}
	n := t.at(idx)
	switch n.kind {
	case KindPrimitive:
		return n.prim.String()
	case KindPointer:
		return t.String(n.pointee) + " " + strings.Repeat("*", n.level)
	case KindArray:
		dim := strconv.Itoa(n.dims[0])
		if n.dims[0] == VLADim {
			dim = ""
		}
		return fmt.Sprintf("%s[%s]", t.String(n.elem), dim)
	case KindStruct:
		if !n.complete {
			return "struct " + n.structName + " (opaque)"
		}
		return "struct " + n.structName
	case KindQualified:
		var q []string
		if n.quals&QualConst != 0 {
			q = append(q, "const")
		}
		if n.quals&QualVolatile != 0 {
			q = append(q, "volatile")
		}
		return strings.Join(q, " ") + " " + t.String(n.base)
	}
	return "?"
}
