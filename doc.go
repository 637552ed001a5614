// Package newsrec 是个性化新闻 Feed 的推荐内核。
//
// 核心抽象是 Pipeline：把一次 Feed 请求拆成可组合的 Node 链，
// 标准链路为 召回 → 过滤 → 排序 → 多样性重排 → 装配：
//
//	recall.Generator  四路召回源（recency/trending/similarity/covisit）
//	                  按配比并发 fan-out，去重合并，批量补全特征
//	filter.Node       话题过滤、已读排除、CEL 规则过滤
//	rank.Node         启发式线性排序（相关性/可信度/时效/重复来源惩罚）
//	rerank.MMR        最大边际相关多样性重排（λ 滑杆）
//	feed.Assembler    来源域名硬上限、回填保量、赞助位注入
//
// Engine 是门面：画像获取与质心构建在请求路径上完成，trending 榜与
// 向量索引作为周期重建的不可变快照在后台维护，请求侧无锁读取。
//
// 设计取向：宁可 Feed 小一点，也不要没有 Feed——画像缺失、特征超时、
// 单个召回源故障都在内部降级，只有参数非法才会拒绝请求。
//
// 最小用法：
//
//	factory := config.DefaultFactory(deps)
//	cfg, _ := pipeline.LoadFromYAML("pipeline.yaml")
//	p, _ := cfg.BuildPipeline(factory)
//	engine := newsrec.NewEngine(features, centroidBuilder, p)
//	page, err := engine.Recommend(ctx, &newsrec.Request{UserID: "u1"})
package newsrec
