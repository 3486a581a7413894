package cryptoutil

import "testing"

func TestMD5MatchesVector(t *testing.T) {
	if got := Hex(MD5([]byte("abcdef"))); got != "e80b5017098950fc58aad83c8c14978e" {
		t.Errorf("got %s", got)
	}
}

func TestSHA1MatchesVector(t *testing.T) {
	if got := Hex(SHA1([]byte("abcdef"))); got != "1f8ac10f23c5b5bc1167bda84b833e5c057a77d2" {
		t.Errorf("got %s", got)
	}
}

func TestSHA256MatchesVector(t *testing.T) {
	want := "bef57ec7f53a6d40beb640a780a639c83bc29ac8a9816f1fc6c5c6dcd93c4721"
	if got := Hex(SHA256([]byte("abcdef"))); got != want {
		t.Errorf("got %s", got)
	}
}

func TestSHA512MatchesVector(t *testing.T) {
	want := "e32ef19623e8ed9d267f657a81944b3d07adbb768518068e88435745564e8d4150a0a703be2a7d88b61e3d390c2bb97e2d4c311fdc69d6b1267f05f59aa920e7"
	if got := Hex(SHA512([]byte("abcdef"))); got != want {
		t.Errorf("got %s", got)
	}
}

func TestSHA3_256MatchesVector(t *testing.T) {
	want := "59890c1d183aa279505750422e6384ccb1499c793872d6f31bb3bcaa4bc9f5a5"
	if got := Hex(SHA3_256([]byte("abcdef"))); got != want {
		t.Errorf("got %s", got)
	}
}

func TestSHA3_512MatchesVector(t *testing.T) {
	want := "01309a45c57cd7faef9ee6bb95fed29e5e2e0312af12a95fffeee340e5e5948b4652d26ae4b75976a53cc1612141af6e24df36517a61f46a1a05f59cf667046a"
	if got := Hex(SHA3_512([]byte("abcdef"))); got != want {
		t.Errorf("got %s", got)
	}
}

func TestHMACUnknownDigest(t *testing.T) {
	if _, err := HMAC("bogus", []byte("k"), []byte("m")); err == nil {
		t.Fatal("expected an error for an unknown digest name")
	}
}

func TestHMACSHA256IsDeterministic(t *testing.T) {
	a, err := HMAC("sha2-256", []byte("secret"), []byte("message"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := HMAC("sha2-256", []byte("secret"), []byte("message"))
	if err != nil {
		t.Fatal(err)
	}
	if Hex(a) != Hex(b) {
		t.Error("expected identical input to produce identical HMAC output")
	}
}
