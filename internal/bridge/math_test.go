package bridge

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestVectorMath(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	tests := []struct {
		expr string
		want lua.LValue
	}{
		{"(Vector(1, 2, 3) + Vector(1, 1, 1)).x", lua.LNumber(2)},
		{"(Vector(1, 2, 3) - Vector(1, 1, 1)).z", lua.LNumber(2)},
		{"(Vector(1, 2, 3) * 2).y", lua.LNumber(4)},
		{"(2 * Vector(1, 2, 3)).z", lua.LNumber(6)},
		{"(Vector(2, 4, 6) / 2).x", lua.LNumber(1)},
		{"(-Vector(1, 2, 3)).y", lua.LNumber(-2)},
		{"Vector(3, 4, 0):length()", lua.LNumber(5)},
		{"Vector(3, 4, 0):lengthSquare()", lua.LNumber(25)},
		{"Vector(1, 0, 0):dot(Vector(0, 1, 0))", lua.LNumber(0)},
		{"Vector(1, 2, 3) == Vector(1, 2, 3)", lua.LTrue},
		{"Vector(1, 2, 3) == Vector(1, 2, 4)", lua.LFalse},
		{"Vector(0, 0, 5):normalize().z", lua.LNumber(1)},
		{"(Vector(1, 0, 0) * RotMatrix(0, 1, 0, 1, 0, 0, 0, 0, 1)).y", lua.LNumber(1)},
		{"RotMatrix(1, 0, 0, 0, 1, 0, 0, 0, 1):getForward().z", lua.LNumber(1)},
		{"Integer(4).value", lua.LNumber(4)},
		{"tostring(Integer(-3))", lua.LString("Integer(-3)")},
		{"Vector().class", lua.LString("Vector")},
	}
	for _, tt := range tests {
		if got := eval(t, e, tt.expr); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestVectorInPlace(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	run(t, e, `
		v = Vector(1, 0, 0)
		v:add(Vector(0, 1, 0))
		v:mult(2)
		c = v:clone()
		c.x = 10
	`)
	if got := eval(t, e, "v.x .. ',' .. v.y .. ',' .. c.x"); got != lua.LString("2,2,10") {
		t.Fatalf("got %v", got)
	}
	if got := eval(t, e, "select(2, Vector(4.5, 8, -1):getBlockPos())"); got != lua.LNumber(2) {
		t.Fatalf("block y = %v", got)
	}
	mustFail(t, e, "Vector(1, 2, 3):add(5)", "Vector expected, got number")
}
