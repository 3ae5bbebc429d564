package model

import (
	"testing"

	"github.com/akoita/jsplit/pkg/jsast"
)

func TestTableMapLookups(t *testing.T) {
	scope := jsast.NewScope()
	nameM := scope.Declare("method_m", "m0")
	nameF := scope.Declare("field_f", "f0")

	typ := &DeclaredType{Name: "T"}
	meth := &Method{Name: "m", Enclosing: typ}
	field := &Field{Name: "f", Enclosing: typ}
	install := jsast.MakeStmt(&jsast.NameRef{Name: nameM})
	reg := jsast.MakeStmt(&jsast.NameRef{Name: nameF})

	m := NewTableMap()
	m.PutMethod(nameM, meth)
	m.PutField(nameF, field)
	m.PutStatementType(reg, typ)
	m.PutVtableInit(install, meth)

	if got := m.MethodForName(nameM); got != meth {
		t.Errorf("MethodForName = %v, want %v", got, meth)
	}
	if got := m.NameForMethod(meth); got != nameM {
		t.Errorf("NameForMethod = %v, want %v", got, nameM)
	}
	if got := m.FieldForName(nameF); got != field {
		t.Errorf("FieldForName = %v, want %v", got, field)
	}
	if got := m.TypeForStatement(reg); got != typ {
		t.Errorf("TypeForStatement = %v, want %v", got, typ)
	}
	if got := m.MethodForVtableInit(install); got != meth {
		t.Errorf("MethodForVtableInit = %v, want %v", got, meth)
	}
}

func TestTableMapMissesReturnNil(t *testing.T) {
	scope := jsast.NewScope()
	name := scope.Declare("unmapped", "u0")
	stat := jsast.MakeStmt(&jsast.NameRef{Name: name})

	m := NewTableMap()
	if m.MethodForName(name) != nil {
		t.Error("MethodForName should return nil for an unmapped name")
	}
	if m.FieldForName(name) != nil {
		t.Error("FieldForName should return nil for an unmapped name")
	}
	if m.TypeForStatement(stat) != nil {
		t.Error("TypeForStatement should return nil for an unmapped statement")
	}
	if m.MethodForVtableInit(stat) != nil {
		t.Error("MethodForVtableInit should return nil for an unmapped statement")
	}
	if m.NameForMethod(&Method{Name: "ghost"}) != nil {
		t.Error("NameForMethod should return nil for an unmapped method")
	}
}
