package sheet

import (
	"fmt"
	"strings"
)

// Formula texts. Every division is guarded so the rendered sheet never shows
// a #DIV/0! error.

func extrapolate(prev, rate string) string {
	return fmt.Sprintf("%s*(1+%s)", prev, rate)
}

func product(a, b string) string {
	return a + "*" + b
}

func divide(num, den string) string {
	return fmt.Sprintf("IF(%s<>0,%s/%s,0)", den, num, den)
}

func growth(curr, prev string) string {
	return fmt.Sprintf("IF(%s<>0,(%s-%s)/%s,0)", prev, curr, prev, prev)
}

func quarterEPS(profit, shares string) string {
	return fmt.Sprintf("IF(%s<>0,%s*1000000/%s,0)", shares, profit, shares)
}

func sum(refs ...string) string {
	return "SUM(" + strings.Join(refs, ",") + ")"
}

func trailingPE(price, epsRange string) string {
	s := sum(epsRange)
	return fmt.Sprintf("IF(%s<>0,%s/%s,0)", s, price, s)
}

func scenarioValue(pe, eps string) string {
	return fmt.Sprintf(`IF(ISNUMBER(%s)*ISNUMBER(%s),%s*%s,"-")`, pe, eps, pe, eps)
}
