package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triple strips positional fields so results can be compared on content.
type triple struct {
	Field    string
	Operator Operator
	Value    string
	Raw      string
}

func triples(conds []Condition) []triple {
	out := make([]triple, 0, len(conds))
	for _, c := range conds {
		out = append(out, triple{c.Field, c.Operator, c.Value, c.Raw})
	}
	return out
}

func TestScanBasic(t *testing.T) {
	got := Scan(`host="api" && status=="200"`)
	want := []triple{
		{"host", OpFuzzy, "api", `host="api"`},
		{"status", OpExact, "200", `status=="200"`},
	}
	assert.Equal(t, want, triples(got))
}

func TestScanCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []triple
	}{
		{"empty", "", []triple{}},
		{"broken operator", `broken=`, []triple{}},
		{"unterminated quote", `host="api`, []triple{}},
		{"not equal", `host!="test"`, []triple{{"host", OpNotEqual, "test", `host!="test"`}}},
		{"empty value", `title==""`, []triple{{"title", OpExact, "", `title==""`}}},
		{"value containing operators", `body="a==b"`, []triple{{"body", OpFuzzy, "a==b", `body="a==b"`}}},
		{"escaped quote kept literally", `title="say \"hi\""`, []triple{{"title", OpFuzzy, `say \"hi\"`, `title="say \"hi\""`}}},
		{"comma joined values stay whole", `tech="vue,react"`, []triple{{"tech", OpFuzzy, "vue,react", `tech="vue,react"`}}},
		{"value with spaces", `title="hello world" host="x"`, []triple{
			{"title", OpFuzzy, "hello world", `title="hello world"`},
			{"host", OpFuzzy, "x", `host="x"`},
		}},
		{"garbage between conditions", `junk a=b host="x" ((( tech=="go"`, []triple{
			{"host", OpFuzzy, "x", `host="x"`},
			{"tech", OpExact, "go", `tech=="go"`},
		}},
		{"trailing unterminated condition ignored", `host="x" && tech="ng`, []triple{
			{"host", OpFuzzy, "x", `host="x"`},
		}},
		{"space before operator not accepted", `host = "x"`, []triple{}},
		{"unknown field accepted", `whatever=="1"`, []triple{{"whatever", OpExact, "1", `whatever=="1"`}}},
		{"accented identifier", `héte="api"`, []triple{{"héte", OpFuzzy, "api", `héte="api"`}}},
		{"non latin identifier", `名前="x" && 状態=="ok"`, []triple{
			{"名前", OpFuzzy, "x", `名前="x"`},
			{"状態", OpExact, "ok", `状態=="ok"`},
		}},
		{"non ascii digits", `código_٣="1"`, []triple{{"código_٣", OpFuzzy, "1", `código_٣="1"`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, triples(Scan(tt.input)))
		})
	}
}

func TestScanOffsetsAreOrderedAndDisjoint(t *testing.T) {
	inputs := []string{
		`host="api" && status=="200" || tech="nginx"`,
		`a="1"b="2"c!="3"`,
		`x="unterminated y="z" w=="q"`,
		`"""a="" b=""""`,
		`title="a\"b" host="c"`,
	}
	for _, in := range inputs {
		conds := Scan(in)
		prevEnd := 0
		for _, c := range conds {
			require.GreaterOrEqual(t, c.Start, prevEnd, "input %q", in)
			require.Equal(t, c.Raw, in[c.Start:c.End], "input %q", in)
			prevEnd = c.End
		}
	}
}

func TestScanJoin(t *testing.T) {
	conds := Scan(`host="a" && tech="b" || status=="200" or title="x" title="y" and body="z"`)
	require.Len(t, conds, 6)
	joins := make([]LogicalOp, 0, len(conds))
	for _, c := range conds {
		joins = append(joins, c.Join)
	}
	assert.Equal(t, []LogicalOp{And, And, Or, Or, And, And}, joins)
}

func TestScanJoinIgnoresWordsContainingOr(t *testing.T) {
	conds := Scan(`host="a" color title="b"`)
	require.Len(t, conds, 2)
	assert.Equal(t, And, conds[1].Join)
}

func TestRenderRoundTrip(t *testing.T) {
	inputs := []string{
		`host="api" && status=="200" || tech="nginx"`,
		`junk host!="x" more junk body="a b"`,
		`title="a\"b"`,
		`nothing here`,
	}
	for _, in := range inputs {
		first := Scan(in)
		again := Scan(Render(first))
		assert.Equal(t, triples(first), triples(again), "input %q", in)
	}
}

func TestConditionString(t *testing.T) {
	c := Scan(`status!="404"`)[0]
	assert.Equal(t, `status!="404"`, c.String())
	assert.Equal(t, `status ≠ "404"`, c.Label())
}

func TestOperatorKind(t *testing.T) {
	assert.Equal(t, "FUZZY", OpFuzzy.Kind())
	assert.Equal(t, "EXACT", OpExact.Kind())
	assert.Equal(t, "NOT_EQUAL", OpNotEqual.Kind())
	assert.Equal(t, "UNKNOWN", Operator("<").Kind())

	op, ok := ParseOperator("!=")
	assert.True(t, ok)
	assert.Equal(t, OpNotEqual, op)
	_, ok = ParseOperator("=!")
	assert.False(t, ok)
}

func TestFields(t *testing.T) {
	conds := Scan(`host="a" tech="b" host="c"`)
	assert.Equal(t, []string{"host", "tech"}, Fields(conds))
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate("   "), ErrEmptyQuery)
	assert.ErrorIs(t, Validate("host"), ErrNoConditions)
	assert.NoError(t, Validate(`host="api"`))
}

func BenchmarkScan(b *testing.B) {
	input := strings.Repeat(`host="api" && status=="200" || `, 4) + `tech="ngi`
	for i := 0; i < b.N; i++ {
		_ = Scan(input)
	}
}
