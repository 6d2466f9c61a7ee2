package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-ego/gse"
)

// Entry 知识库词条
// Patterns 是触发问法；Answer 是本地应答
type Entry struct {
	Patterns []string `json:"patterns"`
	Answer   string   `json:"answer"`
}

// Result 查询结果
type Result struct {
	Answer     string
	Confidence float64
}

// Base 本地知识库
// 查询是纯本地计算：gse 分词后按 Jaccard 重合度打分，同样的数据集和
// 查询必然得到同样的结果
type Base struct {
	seg     gse.Segmenter
	entries []Entry
	// 预分词的 pattern token 集合，与 entries 下标对齐
	patternTokens [][]map[string]struct{}
}

// New 创建知识库；path 为空时只加载内置词条
func New(path string) (*Base, error) {
	b := &Base{}
	if err := b.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("failed to load segmenter dict: %w", err)
	}

	b.entries = builtinEntries()

	if path != "" {
		extra, err := loadEntries(path)
		if err != nil {
			return nil, err
		}
		b.entries = append(b.entries, extra...)
	}

	b.index()
	return b, nil
}

// NewWithEntries 用指定词条创建知识库，主要用于测试
func NewWithEntries(entries []Entry) (*Base, error) {
	b := &Base{entries: entries}
	if err := b.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("failed to load segmenter dict: %w", err)
	}
	b.index()
	return b, nil
}

func loadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
	}
	return entries, nil
}

func (b *Base) index() {
	b.patternTokens = make([][]map[string]struct{}, len(b.entries))
	for i, e := range b.entries {
		sets := make([]map[string]struct{}, len(e.Patterns))
		for j, p := range e.Patterns {
			sets[j] = b.tokenSet(p)
		}
		b.patternTokens[i] = sets
	}
}

func (b *Base) tokenSet(text string) map[string]struct{} {
	normalized := strings.ToLower(strings.TrimSpace(text))
	set := make(map[string]struct{})
	for _, tok := range b.seg.Cut(normalized, true) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// Search 在知识库中查找最匹配的应答
// 归一化后的精确命中置信度为 1.0，其余按 token 重合度给分
func (b *Base) Search(query string) (Result, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return Result{}, false
	}

	queryTokens := b.tokenSet(query)

	best := Result{}
	found := false
	for i, e := range b.entries {
		for j, p := range e.Patterns {
			var score float64
			if strings.ToLower(strings.TrimSpace(p)) == normalized {
				score = 1.0
			} else {
				score = jaccard(queryTokens, b.patternTokens[i][j])
			}
			if score > best.Confidence {
				best = Result{Answer: e.Answer, Confidence: score}
				found = true
			}
		}
	}

	if !found || best.Confidence == 0 {
		return Result{}, false
	}
	return best, true
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// builtinEntries 内置词条，对应无需调用外部模型的固定应答
func builtinEntries() []Entry {
	return []Entry{
		{
			Patterns: []string{"status", "system status", "health", "uptime"},
			Answer: `### System Status Report
| Component | Status | Latency | Uptime |
| :--- | :--- | :--- | :--- |
| **Neural Core** | [OK] Online | 2ms | 99.99% |
| **Vector DB** | [OK] Online | 15ms | 99.95% |
| **Gateway** | [OK] Online | 5ms | 100.00% |

> [!NOTE]
> All systems operational. Response generated locally.`,
		},
		{
			Patterns: []string{"who are you", "what are you", "identity"},
			Answer:   "I am **Sentinel AI**, a specialized artificial intelligence designed to optimize workflows, enhance decision-making, and provide deep technical support. I operate within this Universal Workspace to serve as your co-pilot in all digital endeavors.",
		},
		{
			Patterns: []string{"hello", "hi", "hey", "greetings"},
			Answer:   "Hello! I am Sentinel AI. How can I assist you with your operations today?",
		},
	}
}
