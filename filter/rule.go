package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/dsl"
)

// RuleFilter 按 CEL 规则表达式剔除候选：表达式为真的候选被过滤。
// 表达式在构造时编译一次，请求路径上只做求值。
//
// 例：NewRuleFilter(`item.domain == "example.com"`) 屏蔽指定来源。
type RuleFilter struct {
	expr string
	prg  *dsl.Program
}

func NewRuleFilter(expr string) (*RuleFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{expr: expr, prg: prg}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.expr == "" {
		return false, nil
	}
	return f.prg.Evaluate(item, rctx)
}
