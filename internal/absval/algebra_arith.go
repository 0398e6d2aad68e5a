package absval

import (
	"math/big"

	"avengine/internal/constant"
	"avengine/internal/exprtype"
	"avengine/internal/interval"
)

// foldConstants tries to constant-fold a binary op over two ConstantExpr
// operands using fn; ok is false when either side is not a known
// ConstantDomain or fn itself reports Bottom (undefined, e.g. div by 0).
func foldConstants(l, r *AbstractValue, fn func(a, b constant.Domain) constant.Domain) (*AbstractValue, bool) {
	lc, ok1 := l.Expr.(ConstantExpr)
	rc, ok2 := r.Expr.(ConstantExpr)
	if !ok1 || !ok2 {
		return nil, false
	}
	folded := fn(lc.Value, rc.Value)
	if folded.IsBottom() {
		return nil, false
	}
	return OfConstant(folded), true
}

// Addition implements x+y with the identity/negation-fusion/
// constant-folding rewrites from spec.md §4.2.
func (v *AbstractValue) Addition(other *AbstractValue) *AbstractValue {
	if isIntZero(other.Expr) {
		return v // x + 0 -> x
	}
	if isIntZero(v.Expr) {
		return other // 0 + x -> x
	}
	if folded, ok := foldConstants(v, other, constant.Domain.Add); ok {
		return folded
	}
	if neg, ok := other.Expr.(NegExpr); ok {
		return v.Subtract(neg.Operand) // x + (-y) -> x - y
	}
	if add, ok := v.Expr.(AddExpr); ok {
		// (x + c1) + c2 -> x + (c1+c2)
		if folded, ok := foldConstants(add.Right, other, constant.Domain.Add); ok {
			return add.Left.Addition(folded)
		}
	}
	if result, ok := distribute(v, other, (*AbstractValue).Addition); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return AddExpr{Left: l, Right: r} })
}

// Subtract implements x-y.
func (v *AbstractValue) Subtract(other *AbstractValue) *AbstractValue {
	if isIntZero(other.Expr) {
		return v // x - 0 -> x
	}
	if folded, ok := foldConstants(v, other, constant.Domain.Sub); ok {
		return folded
	}
	if Equal(v, other) && !v.IsTop() && !v.IsBottom() {
		return OfI128(big.NewInt(0)) // x - x -> 0
	}
	if neg, ok := other.Expr.(NegExpr); ok {
		return v.Addition(neg.Operand) // x - (-y) -> x + y
	}
	if add, ok := v.Expr.(AddExpr); ok {
		// (x + c1) - c2 -> x + (c1-c2)
		if folded, ok := foldConstants(add.Right, other, constant.Domain.Sub); ok {
			return add.Left.Addition(folded)
		}
	}
	if result, ok := distribute(v, other, (*AbstractValue).Subtract); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return SubExpr{Left: l, Right: r} })
}

// Negate implements -x.
func (v *AbstractValue) Negate() *AbstractValue {
	if v.IsTop() || v.IsBottom() {
		return v
	}
	if c, ok := v.Expr.(ConstantExpr); ok {
		if folded := c.Value.Neg(); !folded.IsBottom() {
			return OfConstant(folded)
		}
	}
	if n, ok := v.Expr.(NegExpr); ok {
		return n.Operand // -(-x) -> x
	}
	return makeUnary(v, func(o *AbstractValue) Expression { return NegExpr{Operand: o} })
}

// Multiply implements x*y with identity/absorber/constant-folding
// rewrites.
func (v *AbstractValue) Multiply(other *AbstractValue) *AbstractValue {
	if isIntOne(other.Expr) {
		return v // x * 1 -> x
	}
	if isIntOne(v.Expr) {
		return other // 1 * x -> x
	}
	if isIntZero(v.Expr) || isIntZero(other.Expr) {
		if !v.IsTop() && !v.IsBottom() && !other.IsTop() && !other.IsBottom() {
			return OfI128(big.NewInt(0)) // 0*x -> 0, x*0 -> 0
		}
	}
	if folded, ok := foldConstants(v, other, constant.Domain.Mul); ok {
		return folded
	}
	if mul, ok := v.Expr.(MulExpr); ok {
		// (x * c1) * c2 -> x * (c1*c2)
		if folded, ok := foldConstants(mul.Right, other, constant.Domain.Mul); ok {
			return mul.Left.Multiply(folded)
		}
	}
	if result, ok := distribute(v, other, (*AbstractValue).Multiply); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return MulExpr{Left: l, Right: r} })
}

// Divide implements x/y with the multiplicative-cancellation rewrites
// from spec.md §4.2: (x*y)/x -> y, (x*y)/y -> x, and, when one factor
// and the divisor are both constants with the divisor evenly dividing
// it, (c1*y)/c2 -> (c1/c2)*y.
func (v *AbstractValue) Divide(other *AbstractValue) *AbstractValue {
	if folded, ok := foldConstants(v, other, constant.Domain.Div); ok {
		return folded
	}
	if mul, ok := v.Expr.(MulExpr); ok {
		if Equal(mul.Left, other) {
			return mul.Right
		}
		if Equal(mul.Right, other) {
			return mul.Left
		}
		if c2, ok := other.Expr.(ConstantExpr); ok && c2.Value.Kind == constant.KindInt {
			if c1, ok := mul.Left.Expr.(ConstantExpr); ok && evenlyDivides(c1.Value, c2.Value) {
				return mul.Left.Divide(other).Multiply(mul.Right)
			}
			if c1, ok := mul.Right.Expr.(ConstantExpr); ok && evenlyDivides(c1.Value, c2.Value) {
				return mul.Right.Divide(other).Multiply(mul.Left)
			}
		}
	}
	if result, ok := distribute(v, other, (*AbstractValue).Divide); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return DivExpr{Left: l, Right: r} })
}

// evenlyDivides reports whether c1 is an integer constant larger than
// c2 in absolute value and evenly divisible by it, the guard the original
// checker uses before rewriting (c1*y)/c2 to (c1/c2)*y.
func evenlyDivides(c1, c2 constant.Domain) bool {
	if c1.Kind != constant.KindInt || c2.Kind != constant.KindInt || c2.Int.Sign() == 0 {
		return false
	}
	if c1.Int.CmpAbs(c2.Int) <= 0 {
		return false
	}
	return new(big.Int).Mod(c1.Int, c2.Int).Sign() == 0
}

// Remainder implements x%y.
func (v *AbstractValue) Remainder(other *AbstractValue) *AbstractValue {
	if folded, ok := foldConstants(v, other, constant.Domain.Rem); ok {
		return folded
	}
	if result, ok := distribute(v, other, (*AbstractValue).Remainder); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return RemExpr{Left: l, Right: r} })
}

func (v *AbstractValue) BitAnd(other *AbstractValue) *AbstractValue {
	if folded, ok := foldConstants(v, other, constant.Domain.BitAnd); ok {
		return folded
	}
	if result, ok := distribute(v, other, (*AbstractValue).BitAnd); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return BitAndExpr{Left: l, Right: r} })
}

func (v *AbstractValue) BitOr(other *AbstractValue) *AbstractValue {
	if folded, ok := foldConstants(v, other, constant.Domain.BitOr); ok {
		return folded
	}
	if result, ok := distribute(v, other, (*AbstractValue).BitOr); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return BitOrExpr{Left: l, Right: r} })
}

func (v *AbstractValue) BitXor(other *AbstractValue) *AbstractValue {
	if folded, ok := foldConstants(v, other, constant.Domain.BitXor); ok {
		return folded
	}
	if result, ok := distribute(v, other, (*AbstractValue).BitXor); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return BitXorExpr{Left: l, Right: r} })
}

// BitNot implements ~x against a target type for the result.
func (v *AbstractValue) BitNot(targetType exprtype.Type) *AbstractValue {
	if v.IsTop() || v.IsBottom() {
		return v
	}
	if c, ok := v.Expr.(ConstantExpr); ok && c.Value.Kind == constant.KindInt {
		if mod := targetType.ModuloValue(); mod != nil {
			inverted := new(big.Int).Xor(c.Value.Int, new(big.Int).Sub(mod, big.NewInt(1)))
			return OfConstant(constant.Domain{Kind: constant.KindInt, Int: inverted, Signed: c.Value.Signed})
		}
	}
	return makeTypedUnary(v, func(o *AbstractValue) Expression {
		return BitNotExpr{Operand: o, ResultType: targetType}
	})
}

func (v *AbstractValue) ShiftLeft(other *AbstractValue) *AbstractValue {
	if c, ok := v.Expr.(ConstantExpr); ok {
		if s, ok2 := other.Expr.(ConstantExpr); ok2 && c.Value.Kind == constant.KindInt && s.Value.Kind == constant.KindInt && s.Value.Int.IsUint64() {
			return OfConstant(c.Value.Shl(uint(s.Value.Int.Uint64())))
		}
	}
	if result, ok := distribute(v, other, (*AbstractValue).ShiftLeft); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return ShlExpr{Left: l, Right: r} })
}

func (v *AbstractValue) ShiftRight(other *AbstractValue, resultType exprtype.Type) *AbstractValue {
	if c, ok := v.Expr.(ConstantExpr); ok {
		if s, ok2 := other.Expr.(ConstantExpr); ok2 && c.Value.Kind == constant.KindInt && s.Value.Kind == constant.KindInt && s.Value.Int.IsUint64() {
			return OfConstant(c.Value.Shr(uint(s.Value.Int.Uint64())))
		}
	}
	return makeTypedBinary(v, other, func(l, r *AbstractValue) Expression {
		return ShrExpr{Left: l, Right: r, ResultType: resultType}
	})
}

// Cast implements the cast-fusion rewrites from spec.md §4.2:
//   - (x as T1) as T2 -> x as T2 when T2 is unsigned and T1's maximum
//     value is at least T2's (the outer cast narrows or keeps the width,
//     so it absorbs the inner one);
//   - (x % T.modulo) as T -> x as T.
func (v *AbstractValue) Cast(targetType exprtype.Type) *AbstractValue {
	if v.IsTop() || v.IsBottom() {
		return v
	}
	if c, ok := v.Expr.(ConstantExpr); ok && c.Value.Kind == constant.KindInt {
		if targetType.Contains(c.Value.Int) {
			return OfConstant(constant.Domain{Kind: constant.KindInt, Int: c.Value.Int, Signed: targetType.IsSigned()})
		}
		if mod := targetType.ModuloValue(); mod != nil {
			wrapped := new(big.Int).Mod(c.Value.Int, mod)
			return OfConstant(constant.Domain{Kind: constant.KindInt, Int: wrapped, Signed: targetType.IsSigned()})
		}
	}
	if cast, ok := v.Expr.(CastExpr); ok && targetType.IsUnsignedInteger() {
		if cast.ResultType.MaxValue() != nil && targetType.MaxValue() != nil &&
			cast.ResultType.MaxValue().Cmp(targetType.MaxValue()) >= 0 {
			return cast.Operand.Cast(targetType)
		}
	}
	if rem, ok := v.Expr.(RemExpr); ok {
		if c2, ok2 := rem.Right.Expr.(ConstantExpr); ok2 && targetType.ModuloValue() != nil &&
			c2.Value.Kind == constant.KindInt && c2.Value.Int.Cmp(targetType.ModuloValue()) == 0 {
			return rem.Left.Cast(targetType)
		}
	}
	return makeTypedUnary(v, func(o *AbstractValue) Expression { return CastExpr{Operand: o, ResultType: targetType} })
}

// RemainderOnCast implements `(x as T) % c -> x % c` when c is a power
// of two no larger than T's modulus (spec.md §4.2). It rewrites a Rem
// node built over a prior Cast, so it is a separate entry point rather
// than part of Remainder itself.
func (v *AbstractValue) RemainderOnCast() *AbstractValue {
	rem, ok := v.Expr.(RemExpr)
	if !ok {
		return v
	}
	cast, ok := rem.Left.Expr.(CastExpr)
	if !ok {
		return v
	}
	c, ok := rem.Right.Expr.(ConstantExpr)
	if !ok || c.Value.Kind != constant.KindInt {
		return v
	}
	if !isPowerOfTwo(c.Value.Int) {
		return v
	}
	if mod := cast.ResultType.ModuloValue(); mod == nil || c.Value.Int.Cmp(mod) > 0 {
		return v
	}
	return cast.Operand.Remainder(rem.Right)
}

func isPowerOfTwo(v *big.Int) bool {
	if v.Sign() <= 0 {
		return false
	}
	x := new(big.Int).Sub(v, big.NewInt(1))
	return new(big.Int).And(v, x).Sign() == 0
}

// --- overflow predicates (spec.md §4.3) ---
//
// AddOverflows, SubOverflows and MulOverflows first try constant
// folding, then ask whether the interval of the result, computed from
// the operands' cached intervals, is provably contained in targetType
// (definitely no overflow) or is a single out-of-range point
// (definitely overflow); otherwise they build the symbolic
// *OverflowsExpr node for later refinement. ShlOverflows and
// ShrOverflows do neither: they always build the symbolic node.

func (v *AbstractValue) AddOverflows(other *AbstractValue, targetType exprtype.Type) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 && lc.Value.Kind == constant.KindInt && rc.Value.Kind == constant.KindInt {
			sum := new(big.Int).Add(lc.Value.Int, rc.Value.Int)
			return OfBool(!targetType.Contains(sum))
		}
	}
	if b, ok := intervalOverflow(v, other, targetType, interval.Domain.Add); ok {
		return OfBool(b)
	}
	return makeTypedBinary(v, other, func(l, r *AbstractValue) Expression {
		return AddOverflowsExpr{Left: l, Right: r, ResultType: targetType}
	})
}

func (v *AbstractValue) SubOverflows(other *AbstractValue, targetType exprtype.Type) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 && lc.Value.Kind == constant.KindInt && rc.Value.Kind == constant.KindInt {
			diff := new(big.Int).Sub(lc.Value.Int, rc.Value.Int)
			return OfBool(!targetType.Contains(diff))
		}
	}
	if b, ok := intervalOverflow(v, other, targetType, interval.Domain.Sub); ok {
		return OfBool(b)
	}
	return makeTypedBinary(v, other, func(l, r *AbstractValue) Expression {
		return SubOverflowsExpr{Left: l, Right: r, ResultType: targetType}
	})
}

func (v *AbstractValue) MulOverflows(other *AbstractValue, targetType exprtype.Type) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 && lc.Value.Kind == constant.KindInt && rc.Value.Kind == constant.KindInt {
			prod := new(big.Int).Mul(lc.Value.Int, rc.Value.Int)
			return OfBool(!targetType.Contains(prod))
		}
	}
	if b, ok := intervalOverflow(v, other, targetType, interval.Domain.Mul); ok {
		return OfBool(b)
	}
	return makeTypedBinary(v, other, func(l, r *AbstractValue) Expression {
		return MulOverflowsExpr{Left: l, Right: r, ResultType: targetType}
	})
}

func (v *AbstractValue) ShlOverflows(other *AbstractValue, targetType exprtype.Type) *AbstractValue {
	return makeTypedBinary(v, other, func(l, r *AbstractValue) Expression {
		return ShlOverflowsExpr{Left: l, Right: r, ResultType: targetType}
	})
}

func (v *AbstractValue) ShrOverflows(other *AbstractValue, targetType exprtype.Type) *AbstractValue {
	return makeTypedBinary(v, other, func(l, r *AbstractValue) Expression {
		return ShrOverflowsExpr{Left: l, Right: r, ResultType: targetType}
	})
}

// intervalOverflow applies combine (the interval domain's Add, Sub or
// Mul) to the operands' cached intervals and reports whether the result
// is provably contained in targetType (definitely no overflow) or is a
// single point outside it (definitely overflow). ok is false (no
// verdict) whenever either interval is bottom or the result is
// unbounded, in which case the caller must fall back to the symbolic
// node.
func intervalOverflow(l, r *AbstractValue, targetType exprtype.Type, combine func(a, b interval.Domain) interval.Domain) (bool, bool) {
	li, ri := l.GetCachedInterval(), r.GetCachedInterval()
	if li.IsBottom() || ri.IsBottom() {
		return false, false
	}
	result := combine(li, ri)
	lo, hi := result.LowerBound(), result.UpperBound()
	if lo == nil || hi == nil {
		return false, false
	}
	if result.IsContainedIn(targetType) {
		return false, true // definitely no overflow
	}
	if lo.Cmp(hi) == 0 {
		return true, true
	}
	return false, false
}

func isIntZero(e Expression) bool {
	c, ok := e.(ConstantExpr)
	return ok && c.Value.IsZero()
}

func isIntOne(e Expression) bool {
	c, ok := e.(ConstantExpr)
	return ok && c.Value.IsOne()
}
