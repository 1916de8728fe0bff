package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVM() (*VM, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewWithConfig(Config{Stdout: &stdout, Stderr: &stderr}), &stdout, &stderr
}

func TestInterpretArithmeticPrecedence(t *testing.T) {
	vm, stdout, stderr := newTestVM()
	result, err := vm.Interpret("print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, Ok, result)
	assert.Equal(t, "7\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestInterpretStringConcatenation(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", stdout.String())
}

func TestInterpretBooleanAndComparisonLogic(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`print 1 < 2; print 2 < 1; print 1 == 1.0; print !false;`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\ntrue\ntrue\n", stdout.String())
}

func TestInterpretBooleanComparisonIsAllowed(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`print false < true; print true > true;`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\n", stdout.String())
}

func TestInterpretStringInterningIdentity(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`var a = "hi"; var b = "hi"; print a == b;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", stdout.String())
}

func TestInterpretBlockScopingShadowing(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`var a = "outer"; { var a = "inner"; print a; } print a;`)
	require.NoError(t, err)
	assert.Equal(t, "inner\nouter\n", stdout.String())
}

func TestInterpretUninitializedGlobalDefaultsToNil(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`var a; print a;`)
	require.NoError(t, err)
	assert.Equal(t, "nil\n", stdout.String())
}

func TestInterpretIfElseBranching(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`if (1 < 2) print "yes"; else print "no";`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", stdout.String())

	vm2, stdout2, _ := newTestVM()
	_, err = vm2.Interpret(`if (2 < 1) print "yes"; else print "no";`)
	require.NoError(t, err)
	assert.Equal(t, "no\n", stdout2.String())
}

func TestInterpretRuntimeTypeErrorReporting(t *testing.T) {
	vm, stdout, stderr := newTestVM()
	result, err := vm.Interpret(`print 1 + "a";`)
	require.Error(t, err)
	assert.Equal(t, RuntimeError, result)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Operands must be two numbers or two strings.")
	assert.Contains(t, stderr.String(), "[line 1] in script")
}

func TestInterpretCompileErrorReturnsCompileError(t *testing.T) {
	vm, _, stderr := newTestVM()
	result, err := vm.Interpret(`var a = ;`)
	require.Error(t, err)
	assert.Equal(t, CompileError, result)
	assert.NotEmpty(t, stderr.String())
}

func TestInterpretAssignToUndefinedGlobalIsRuntimeError(t *testing.T) {
	vm, _, stderr := newTestVM()
	result, err := vm.Interpret(`a = 1;`)
	require.Error(t, err)
	assert.Equal(t, RuntimeError, result)
	assert.Contains(t, stderr.String(), "Undefined variable 'a'.")

	// The failed assignment must not have created the global.
	_, ok := vm.Global("a")
	assert.False(t, ok)
}

func TestInterpretReadUndefinedGlobalIsRuntimeError(t *testing.T) {
	vm, _, stderr := newTestVM()
	result, err := vm.Interpret(`print a;`)
	require.Error(t, err)
	assert.Equal(t, RuntimeError, result)
	assert.Contains(t, stderr.String(), "Undefined variable 'a'.")
}

func TestInterpretNegateRequiresNumber(t *testing.T) {
	vm, _, stderr := newTestVM()
	result, err := vm.Interpret(`print -"a";`)
	require.Error(t, err)
	assert.Equal(t, RuntimeError, result)
	assert.Contains(t, stderr.String(), "Operand must be a number.")
}

func TestInterpretStackIsBalancedAfterStatements(t *testing.T) {
	vm, _, _ := newTestVM()
	_, err := vm.Interpret(`var a = 1; a = a + 1; print a;`)
	require.NoError(t, err)
	assert.Equal(t, 0, vm.stackTop, "every statement must leave the value stack exactly as it found it")
}

func TestInterpretDoubleNegationLaw(t *testing.T) {
	vm, stdout, _ := newTestVM()
	_, err := vm.Interpret(`print !!true; print !!false;`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\n", stdout.String())
}

func TestInterpretGlobalsPersistAcrossCalls(t *testing.T) {
	vm, _, _ := newTestVM()
	_, err := vm.Interpret(`var a = 1;`)
	require.NoError(t, err)
	_, err = vm.Interpret(`print a;`)
	require.NoError(t, err)

	v, ok := vm.Global("a")
	require.True(t, ok)
	assert.Equal(t, "1", v.String())
}
