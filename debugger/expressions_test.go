package debugger

import (
	"fmt"
	"testing"
)

func TestExpressionEvaluator_Numbers(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	tests := []struct {
		name string
		expr string
		want uint64
	}{
		{"Decimal", "42", 42},
		{"Hex", "0x100", 0x100},
		{"Hex uppercase", "0X1A", 0x1A},
		{"Binary", "0b1010", 0b1010},
		{"Octal", "010", 8},
		{"Negative", "-1", 0xFFFFFFFFFFFFFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%016X, want 0x%016X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Registers(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	// Set register values
	machine.SetReg(10, 100)
	machine.SetReg(5, 200)
	machine.SetReg(2, 0x1000) // sp
	machine.SetReg(1, 0x2000) // ra

	tests := []struct {
		name string
		expr string
		want uint64
	}{
		{"X10", "x10", 100},
		{"X5", "x5", 200},
		{"SP", "sp", 0x1000},
		{"X2", "x2", 0x1000},
		{"RA", "ra", 0x2000},
		{"X1", "x1", 0x2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%016X, want 0x%016X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_ABIAliases(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	machine.SetReg(10, 1) // a0
	machine.SetReg(17, 2) // a7
	machine.SetReg(8, 3)  // s0/fp
	machine.SetReg(27, 4) // s11
	machine.SetReg(5, 5)  // t0
	machine.SetReg(31, 6) // t6

	tests := []struct {
		expr string
		want uint64
	}{
		{"a0", 1}, {"a7", 2}, {"s0", 3}, {"fp", 3}, {"s11", 4}, {"t0", 5}, {"t6", 6},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression(%q) = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Symbols(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := map[string]uint64{
		"main":   0x1000,
		"loop":   0x2000,
		"_start": 0x3000,
	}

	tests := []struct {
		name string
		expr string
		want uint64
	}{
		{"main", "main", 0x1000},
		{"loop", "loop", 0x2000},
		{"_start", "_start", 0x3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%016X, want 0x%016X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Memory(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()

	dataAddr := machine.GetMemoryLayout().DataBase + 0x100
	symbols := map[string]uint64{
		"data": dataAddr,
	}

	// Write test values to memory
	machine.Memory().Store64(dataAddr, 0x1234567890ABCDEF)
	machine.Memory().Store64(dataAddr+0x1000, 0xABCDEF0012345678)

	tests := []struct {
		name string
		expr string
		want uint64
	}{
		{"Bracket notation", fmt.Sprintf("[0x%X]", dataAddr), 0x1234567890ABCDEF},
		{"Star notation", fmt.Sprintf("*0x%X", dataAddr+0x1000), 0xABCDEF0012345678},
		{"Symbol in brackets", "[data]", 0x1234567890ABCDEF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%016X, want 0x%016X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Arithmetic(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	tests := []struct {
		name string
		expr string
		want uint64
	}{
		{"Addition", "10 + 20", 30},
		{"Subtraction", "50 - 20", 30},
		{"Multiplication", "5 * 6", 30},
		{"Division", "60 / 2", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%016X, want 0x%016X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Bitwise(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	tests := []struct {
		name string
		expr string
		want uint64
	}{
		{"Left shift", "1 << 4", 16},
		{"Right shift", "16 >> 2", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%016X, want 0x%016X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_ValueHistory(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	// Evaluate some expressions
	val1, _ := eval.EvaluateExpression("42", machine, symbols)
	val2, _ := eval.EvaluateExpression("100", machine, symbols)

	// Check value numbers
	if eval.GetValueNumber() != 2 {
		t.Errorf("ValueNumber = %d, want 2", eval.GetValueNumber())
	}

	// Retrieve values
	got1, err := eval.GetValue(1)
	if err != nil {
		t.Fatalf("GetValue(1) error = %v", err)
	}
	if got1 != val1 {
		t.Errorf("GetValue(1) = %d, want %d", got1, val1)
	}

	got2, err := eval.GetValue(2)
	if err != nil {
		t.Fatalf("GetValue(2) error = %v", err)
	}
	if got2 != val2 {
		t.Errorf("GetValue(2) = %d, want %d", got2, val2)
	}

	// Try invalid value number
	_, err = eval.GetValue(999)
	if err == nil {
		t.Error("Expected error for invalid value number")
	}
}

func TestExpressionEvaluator_BooleanEvaluation(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	machine.SetReg(10, 42)

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"Zero is false", "0", false},
		{"Non-zero is true", "42", true},
		{"Register non-zero", "x10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.expr, machine, symbols)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Errors(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	tests := []struct {
		name string
		expr string
	}{
		{"Empty expression", ""},
		{"Unknown symbol", "unknown_symbol"},
		{"Invalid register", "x99"},
		{"Division by zero", "10 / 0"},
		{"Invalid hex", "0xGGGG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.EvaluateExpression(tt.expr, machine, symbols)
			if err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestExpressionEvaluator_Reset(t *testing.T) {
	eval := NewExpressionEvaluator()
	machine := newTestVM()
	symbols := make(map[string]uint64)

	// Evaluate some expressions
	eval.EvaluateExpression("42", machine, symbols)
	eval.EvaluateExpression("100", machine, symbols)

	if eval.GetValueNumber() != 2 {
		t.Error("Value number should be 2 before reset")
	}

	// Reset
	eval.Reset()

	if eval.GetValueNumber() != 0 {
		t.Error("Value number should be 0 after reset")
	}

	if len(eval.valueHistory) != 0 {
		t.Error("Value history should be empty after reset")
	}
}
