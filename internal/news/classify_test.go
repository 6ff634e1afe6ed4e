package news

import (
	"reflect"
	"testing"
)

func TestContainsKeyword(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"english model term", "OpenAI ships a new release", true},
		{"case insensitive", "ChatGPT Update", true},
		{"chinese term", "大模型再次刷新评测纪录", true},
		{"no match", "weekly gardening tips for spring", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsKeyword(tt.text); got != tt.want {
				t.Errorf("ContainsKeyword(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestInferIndustryStage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"no hits defaults midstream", "announcement about sports", StageMidstream},
		{"chip heavy text", "nvidia gpu datacenter expansion for 算力", StageUpstream},
		{"model text", "new llm training run with benchmark results", StageMidstream},
		{"application text", "assistant brings productivity to customer service", StageDownstream},
		{"tie resolves upstream first", "gpu model", StageUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferIndustryStage(tt.text); got != tt.want {
				t.Errorf("InferIndustryStage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestInferContentTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single rule", "nvidia ships a new gpu", []string{"芯片算力"}},
		{"rule order kept", "open source agent built on a new model", []string{"模型进展", "Agent", "开源生态"}},
		{"capped at three", "gpu model agent open source application", []string{"芯片算力", "模型进展", "Agent"}},
		{"fallback tag", "quarterly town hall recap", []string{"AI动态"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferContentTags(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InferContentTags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestInferAction(t *testing.T) {
	agentAction := InferAction("a new agent workflow for support teams")
	if agentAction == defaultAction {
		t.Errorf("agent text must match the first rule, got default action")
	}

	releaseAction := InferAction("major model release this week")
	if releaseAction == defaultAction || releaseAction == agentAction {
		t.Errorf("release text must match the release rule, got %q", releaseAction)
	}

	if got := InferAction("nothing to see in this text"); got != defaultAction {
		t.Errorf("unmatched text must yield the default action, got %q", got)
	}
}

func TestInferActionFirstRuleWins(t *testing.T) {
	// Text matching both the agent rule and the release rule.
	got := InferAction("agent model release")
	want := InferAction("agent only text")
	if got != want {
		t.Errorf("first matching rule must win, got %q", got)
	}
}
