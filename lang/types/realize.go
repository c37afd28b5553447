package types

import "tinygo.org/x/go-llvm"

// Realize produces (or returns the cached) backend LLVM type for idx.
// Realization is deterministic (invariant 11: calling Realize twice on the
// same Idx yields the same backend type object) and is the only place a
// backend type object is created — structs are realized lazily as opaque
// named types and their body is filled in once Struct(name, members) is
// called with a non-nil member list (§4.2).
func (t *Table) Realize(idx Idx) llvm.Type {
	if t.llctx == nil {
		panic("types: SetContext must be called before Realize")
	}
	n := t.at(idx)
	if n.hasBackend {
		return n.backend
	}

	var bt llvm.Type
	switch n.kind {
	case KindPrimitive:
		bt = t.realizePrimitive(n.prim)
	case KindPointer:
		// The type table keeps every indirection level in one node; the
		// backend type nests one pointer per level around T (LLVM's typed
		// pointers need a concrete pointee type at each level).
		pointee := t.Realize(n.pointee)
		for i := 1; i < n.level; i++ {
			pointee = llvm.PointerType(pointee, 0)
		}
		bt = llvm.PointerType(pointee, 0)
	case KindArray:
		elemBT := t.Realize(n.elem)
		length := n.dims[0]
		if length == VLADim {
			// The runtime extent lives on the AST; the backend element type
			// alone is what matters for a VLA's dynamic alloca.
			length = 0
		}
		bt = llvm.ArrayType(elemBT, length)
	case KindStruct:
		bt = t.llctx.StructCreateNamed(n.structName)
		n.backend = bt
		n.hasBackend = true
		complete := n.complete
		if complete {
			// Re-fetch after StructCreateNamed: no reallocation has happened yet,
			// but fillStructBody recurses into Realize for each member, which
			// can append to t.nodes and invalidate any *node held across the
			// call, so it re-fetches its own pointer rather than reusing n.
			t.fillStructBody(idx)
		}
		return bt
	case KindQualified:
		// Qualifiers are a program-level concept only; the backend type is
		// identical to the base's.
		bt = t.Realize(n.base)
	default:
		panic("types: Realize: unknown kind")
	}

	n.backend = bt
	n.hasBackend = true
	return bt
}

func (t *Table) realizePrimitive(k PrimKind) llvm.Type {
	switch k {
	case Void:
		return t.llctx.VoidType()
	case Bool:
		return t.llctx.Int1Type()
	case Char:
		return t.llctx.Int8Type()
	case Short:
		return t.llctx.Int16Type()
	case Int:
		return t.llctx.Int32Type()
	case Long:
		return t.llctx.Int64Type()
	case Float:
		return t.llctx.FloatType()
	case Double:
		return t.llctx.DoubleType()
	}
	panic("types: unknown primitive kind")
}

// fillStructBody sets the element list of an already-created opaque
// backend struct type, mutating it in place so any pointer-to-this-struct
// backend type realized earlier (the self-referential case, §3.3) remains
// valid. It re-fetches the node after realizing each member type, since
// that recursion may append to the table and invalidate any node pointer
// held across the call.
func (t *Table) fillStructBody(idx Idx) {
	members := t.at(idx).members
	elems := make([]llvm.Type, len(members))
	for i, m := range members {
		elems[i] = t.Realize(m.Type)
	}
	t.at(idx).backend.StructSetBody(elems, false)
}

// ABISize returns the size in bytes of idx's backend representation, used
// to implement sizeof (§4.3.1).
func (t *Table) ABISize(idx Idx, dataLayout llvm.TargetData) uint64 {
	return dataLayout.TypeAllocSize(t.Realize(idx))
}
