package escalation

import (
	"testing"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

func rec(counter int) *repository.InactivityCheck {
	return &repository.InactivityCheck{UserID: "u1", LastCheckedAt: counter}
}

func rule(days int) *repository.Rule {
	return &repository.Rule{UserID: "u1", InactivityDuration: days}
}

func TestEvaluate_NoRecordCreatesWithoutIncrement(t *testing.T) {
	d := Evaluate(nil, rule(30))
	if d.Action != ActionCreateRecord {
		t.Fatalf("action = %s, want create_record", d.Action)
	}
	if d.Increment {
		t.Fatal("create cycle must not increment")
	}
}

func TestEvaluate_Thresholds(t *testing.T) {
	cases := []struct {
		name    string
		counter int
		rule    *repository.Rule
		want    Action
		wantNxt int
	}{
		{"day zero", 0, rule(30), ActionNone, 1},
		{"mid window", 7, rule(30), ActionNone, 8},
		{"reminder day", 14, rule(30), ActionRemindUser, 15},
		{"day after reminder", 15, rule(30), ActionNone, 16},
		{"alert day", 17, rule(30), ActionAlertContacts, 18},
		{"day after alert", 18, rule(30), ActionNone, 19},
		{"rule match", 30, rule(30), ActionDisclose, 31},
		{"past rule match", 31, rule(30), ActionNone, 32},
		{"no rule no disclosure", 30, nil, ActionNone, 31},
		{"short rule discloses before fixed days", 5, rule(5), ActionDisclose, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(rec(tc.counter), tc.rule)
			if d.Action != tc.want {
				t.Fatalf("action = %s, want %s", d.Action, tc.want)
			}
			if !d.Increment {
				t.Fatal("expected increment")
			}
			if d.NextCounter != tc.wantNxt {
				t.Fatalf("next = %d, want %d", d.NextCounter, tc.wantNxt)
			}
		})
	}
}

// Los días fijos de aviso ganan sobre la regla cuando coinciden: con una
// duración de 14 el día 14 manda recordatorio, no divulga.
func TestEvaluate_FixedDaysShadowRule(t *testing.T) {
	d := Evaluate(rec(14), rule(14))
	if d.Action != ActionRemindUser {
		t.Fatalf("action = %s, want remind_user", d.Action)
	}
	d = Evaluate(rec(17), rule(17))
	if d.Action != ActionAlertContacts {
		t.Fatalf("action = %s, want alert_contacts", d.Action)
	}
}
