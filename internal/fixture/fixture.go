// Package fixture is the compiled Go rendition of the canonical extraction
// fixture (internal/skim/testdata/python/simple.py). The text fixture feeds
// the transform tests; this package pins its runtime contract so the two
// cannot drift apart: same callables, same arity, same results.
package fixture

import "fmt"

// CalculateSum returns the arithmetic sum of two numbers.
func CalculateSum(a, b int) int {
	return a + b
}

// GreetUser returns a greeting embedding the given name.
func GreetUser(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}

// Calculator provides basic arithmetic.
type Calculator struct{}

// Add returns the arithmetic sum of x and y.
func (Calculator) Add(x, y int) int {
	return x + y
}

// Multiply returns the arithmetic product of x and y.
func (Calculator) Multiply(x, y int) int {
	return x * y
}
