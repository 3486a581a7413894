package parse

import "testing"

func TestSn0intTimeFrom(t *testing.T) {
	got := Sn0intTimeFrom(1567931337)
	if got != "2019-09-08T08:28:57" {
		t.Errorf("got %q", got)
	}
}

func TestStrftime(t *testing.T) {
	got, err := Strftime("%d/%m/%Y %H:%M", 1558584994)
	if err != nil {
		t.Fatal(err)
	}
	if got != "23/05/2019 04:16" {
		t.Errorf("got %q", got)
	}
}

func TestStrptime(t *testing.T) {
	got, err := Strptime("%d/%m/%Y %H:%M", "23/05/2019 04:16")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1558584960 {
		t.Errorf("got %d", got)
	}
}

func TestStrftimeRejectsUnknownDirective(t *testing.T) {
	if _, err := Strftime("%Q", 0); err == nil {
		t.Fatal("expected an error for an unsupported directive")
	}
}

func TestDatetimeMatchesFixedFormat(t *testing.T) {
	now := Datetime()
	if len(now) != len("2019-09-08T08:28:57") {
		t.Errorf("unexpected format: %q", now)
	}
}
