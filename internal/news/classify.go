package news

import "strings"

// Industry stage labels. These are the display values the snapshot and
// the store schema carry, so they stay in Chinese.
const (
	StageUpstream   = "上游"
	StageMidstream  = "中游"
	StageDownstream = "下游"
)

const (
	defaultAction  = "先点原文链接，记录一句结论和一个可执行动作。"
	fallbackTag    = "AI动态"
	maxContentTags = 3
)

// filterKeywords gates sources flagged keywords_only. Covers both
// English and Chinese forms since feeds mix languages.
var filterKeywords = []string{
	"ai",
	"artificial intelligence",
	"generative",
	"llm",
	"agent",
	"gpt",
	"chatgpt",
	"claude",
	"gemini",
	"deepseek",
	"openai",
	"anthropic",
	"copilot",
	"mcp",
	"机器学习",
	"人工智能",
	"大模型",
	"智能体",
	"提示词",
	"生成式",
	"模型",
}

type actionRule struct {
	keywords []string
	action   string
}

// Action rules are evaluated in order; the first rule with any keyword
// hit wins.
var actionRules = []actionRule{
	{
		keywords: []string{"agent", "workflow", "automation", "自动化", "流程", "mcp"},
		action:   "把原文拆成流程步骤，先选一个环节做 1 次试跑。",
	},
	{
		keywords: []string{"prompt", "提示词", "instruction"},
		action:   "提取提示词结构，再改成你自己的业务场景。",
	},
	{
		keywords: []string{"release", "发布", "更新", "模型", "model", "feature"},
		action:   "记录新功能变化点，并用你的真实任务做一次前后对比。",
	},
	{
		keywords: []string{"benchmark", "评测", "性能", "latency", "speed"},
		action:   "关注与你场景最相关的指标，不只看总分。",
	},
}

// stageOrder resolves score ties: the first stage carrying the maximum
// score wins.
var stageOrder = []string{StageUpstream, StageMidstream, StageDownstream}

var stageKeywords = map[string][]string{
	StageUpstream: {
		"chip", "gpu", "nvidia", "amd", "semiconductor", "datacenter",
		"infrastructure", "infra",
		"算力", "芯片", "显卡", "数据中心", "硬件",
	},
	StageMidstream: {
		"model", "llm", "multimodal", "agent framework", "mcp", "sdk", "api",
		"training", "finetune", "benchmark", "eval", "foundation model",
		"模型", "大模型", "训练", "评测", "开源模型",
	},
	StageDownstream: {
		"application", "assistant", "productivity", "workflow", "marketing",
		"education", "healthcare", "sales", "customer service",
		"落地", "应用", "生产力", "场景", "企业服务", "内容创作", "自动化",
	},
}

type tagRule struct {
	tag      string
	keywords []string
}

// Tag rules are evaluated in order; each matching rule contributes its
// tag once, capped at maxContentTags.
var tagRules = []tagRule{
	{"芯片算力", []string{"chip", "gpu", "nvidia", "amd", "算力", "芯片", "显卡", "数据中心"}},
	{"模型进展", []string{"model", "llm", "foundation", "大模型", "模型", "多模态", "multimodal"}},
	{"Agent", []string{"agent", "智能体", "mcp", "workflow", "编排"}},
	{"开源生态", []string{"open source", "github", "开源", "repo"}},
	{"应用落地", []string{"application", "product", "落地", "应用", "企业服务"}},
	{"内容生产", []string{"content", "creator", "小红书", "图文", "视频", "口播"}},
	{"自动化", []string{"automation", "自动化", "pipeline", "workflow"}},
	{"投融资", []string{"funding", "investment", "融资", "估值", "投"}},
	{"安全治理", []string{"security", "privacy", "safety", "合规", "治理", "安全"}},
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ContainsKeyword reports whether text mentions any of the domain filter
// keywords (case-insensitive substring match).
func ContainsKeyword(text string) bool {
	return containsAny(strings.ToLower(text), filterKeywords)
}

// InferAction returns the suggested follow-up of the first matching
// action rule, or a default reading suggestion.
func InferAction(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range actionRules {
		if containsAny(lower, rule.keywords) {
			return rule.action
		}
	}
	return defaultAction
}

// InferIndustryStage buckets text into the AI value chain by keyword hit
// count. No hits defaults to 中游; ties resolve in stageOrder.
func InferIndustryStage(text string) string {
	lower := strings.ToLower(text)
	scores := make(map[string]int, len(stageKeywords))
	best := 0
	for stage, keywords := range stageKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				scores[stage]++
			}
		}
		if scores[stage] > best {
			best = scores[stage]
		}
	}
	if best == 0 {
		return StageMidstream
	}
	for _, stage := range stageOrder {
		if scores[stage] == best {
			return stage
		}
	}
	return StageMidstream
}

// InferContentTags collects up to three tags in rule order. Text that
// matches no rule gets the single fallback tag.
func InferContentTags(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, rule := range tagRules {
		if containsAny(lower, rule.keywords) {
			tags = append(tags, rule.tag)
		}
		if len(tags) >= maxContentTags {
			break
		}
	}
	if len(tags) == 0 {
		tags = []string{fallbackTag}
	}
	return tags
}
