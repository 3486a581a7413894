package parse

import "testing"

func TestBase64EncodeDecode(t *testing.T) {
	if got := Base64Encode([]byte("ohai")); got != "b2hhaQ==" {
		t.Errorf("got %q", got)
	}
	got, err := Base64Decode("b2hhaQ==")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ohai" {
		t.Errorf("got %q", got)
	}
}

func TestBase64CustomStandardAlphabet(t *testing.T) {
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	got, err := Base64CustomEncode([]byte("ohai"), alphabet, "=")
	if err != nil {
		t.Fatal(err)
	}
	if got != "b2hhaQ==" {
		t.Errorf("got %q", got)
	}
	decoded, err := Base64CustomDecode("b2hhaQ==", alphabet, "=")
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "ohai" {
		t.Errorf("got %q", decoded)
	}
}

func TestBase64CustomUnpadded(t *testing.T) {
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	got, err := Base64CustomEncode([]byte("ohai"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "b2hhaQ" {
		t.Errorf("got %q", got)
	}
	decoded, err := Base64CustomDecode("b2hhaQ", alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "ohai" {
		t.Errorf("got %q", decoded)
	}
}

func TestBase64CustomURLSafe(t *testing.T) {
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	got, err := Base64CustomEncode([]byte("ohai"), alphabet, "=")
	if err != nil {
		t.Fatal(err)
	}
	if got != "b2hhaQ==" {
		t.Errorf("got %q", got)
	}
}

func TestBase32CustomStandardAlphabet(t *testing.T) {
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	got, err := Base32CustomEncode([]byte("ohai"), alphabet, "=")
	if err != nil {
		t.Fatal(err)
	}
	if got != "N5UGC2I=" {
		t.Errorf("got %q", got)
	}
	decoded, err := Base32CustomDecode("N5UGC2I=", alphabet, "=")
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "ohai" {
		t.Errorf("got %q", decoded)
	}
}

func TestBase32CustomZBase32(t *testing.T) {
	alphabet := "ybndrfg8ejkmcpqxot1uwisza345h769"
	got, err := Base32CustomEncode([]byte("ohai"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "p7wgn4e" {
		t.Errorf("got %q", got)
	}
	decoded, err := Base32CustomDecode("p7wgn4e", alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "ohai" {
		t.Errorf("got %q", decoded)
	}
}

func TestBase64CustomRejectsWrongLengthAlphabet(t *testing.T) {
	if _, err := Base64CustomEncode([]byte("ohai"), "short", "="); err == nil {
		t.Fatal("expected an error for a non-64-symbol alphabet")
	}
}
