// Package dsl 提供基于 CEL (Common Expression Language) 的过滤规则解释器。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "recency" / item.score > 0.7
//   - 逻辑：label.sponsored == null && item.score >= 0.5
//   - 包含："tech" in item.topics / label.recall_source.contains("trending")
//
// 注意：CEL 访问不存在的 key 会报错，存在性用 label.key != null 判断。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/newsrec/core"
)

var (
	// celEnv 全局 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是一条编译好的规则表达式，编译一次后可并发复用。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译 CEL 表达式。空表达式合法，恒为 true。
func Compile(expr string) (*Program, error) {
	p := &Program{expr: expr}
	if expr == "" {
		return p, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: env init: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	p.prg = prg
	return p, nil
}

// Evaluate 在候选与请求上下文上执行规则，返回布尔结果。
func (p *Program) Evaluate(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		// label.recall_source 直接取 value，方便表达式书写
		labels[k] = v.Value
	}

	itemMap := map[string]any{
		"id":       item.ID,
		"score":    item.Score,
		"features": item.Features,
		"topics":   item.Topics(),
		"domain":   item.SourceDomain(),
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		rctxMap["user_id"] = rctx.UserID
		rctxMap["scene"] = rctx.Scene
		rctxMap["params"] = rctx.Params
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"rctx":  rctxMap,
	}
}
