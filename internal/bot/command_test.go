package bot

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Command
	}{
		{"help", "/help", Command{Kind: KindHelp}},
		{"help with mention", "/help@MyGoalBot", Command{Kind: KindHelp}},
		{"goals", "/goals", Command{Kind: KindGoals}},
		{"status", "/status", Command{Kind: KindStatus}},
		{"newgoal with title", "/newgoal Ship the release", Command{Kind: KindNewGoal, Title: "Ship the release"}},
		{"newgoal mention and title", "/newgoal@MyGoalBot Ship it", Command{Kind: KindNewGoal, Title: "Ship it"}},
		{"newgoal without title", "/newgoal", Command{Kind: KindNewGoal, Title: ""}},
		{"newgoal whitespace title", "/newgoal    ", Command{Kind: KindNewGoal, Title: ""}},
		{"complete valid id", "/complete 7", Command{Kind: KindComplete, GoalID: 7}},
		{"complete missing id", "/complete", Command{Kind: KindComplete, GoalID: 0}},
		{"complete non numeric", "/complete abc", Command{Kind: KindComplete, GoalID: 0}},
		{"complete negative", "/complete -3", Command{Kind: KindComplete, GoalID: 0}},
		{"complete zero", "/complete 0", Command{Kind: KindComplete, GoalID: 0}},
		{"unknown command", "/frobnicate", Command{Kind: KindUnknown}},
		{"case sensitive", "/Help", Command{Kind: KindUnknown}},
		{"plain text", "hello there", Command{Kind: KindNone}},
		{"empty", "", Command{Kind: KindNone}},
		{"whitespace only", "   ", Command{Kind: KindNone}},
		{"leading whitespace command", "  /goals", Command{Kind: KindGoals}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.text)
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}
