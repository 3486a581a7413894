package parse

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
)

func customPadding(padding string) rune {
	if padding == "" {
		return base64.NoPadding
	}
	return rune(padding[0])
}

// Base64Decode/Base64Encode use the standard alphabet, matching
// encoding.rs's BASE64 constant.
func Base64Decode(data string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(data)
}

func Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64CustomDecode/Base64CustomEncode accept an arbitrary 64-symbol
// alphabet and padding rune, matching encoding.rs's data-encoding
// Specification builder.
func Base64CustomDecode(data, alphabet, padding string) ([]byte, error) {
	if len(alphabet) != 64 {
		return nil, fmt.Errorf("alphabet isn't base64")
	}
	enc := base64.NewEncoding(alphabet).WithPadding(customPadding(padding))
	return enc.DecodeString(data)
}

func Base64CustomEncode(data []byte, alphabet, padding string) (string, error) {
	if len(alphabet) != 64 {
		return "", fmt.Errorf("alphabet isn't base64")
	}
	enc := base64.NewEncoding(alphabet).WithPadding(customPadding(padding))
	return enc.EncodeToString(data), nil
}

// Base32CustomDecode/Base32CustomEncode accept an arbitrary 32-symbol
// alphabet, covering both standard RFC 4648 and z-base-32 style layouts.
func Base32CustomDecode(data, alphabet, padding string) ([]byte, error) {
	if len(alphabet) != 32 {
		return nil, fmt.Errorf("alphabet isn't base32")
	}
	enc := base32.NewEncoding(alphabet).WithPadding(customPadding(padding))
	return enc.DecodeString(data)
}

func Base32CustomEncode(data []byte, alphabet, padding string) (string, error) {
	if len(alphabet) != 32 {
		return "", fmt.Errorf("alphabet isn't base32")
	}
	enc := base32.NewEncoding(alphabet).WithPadding(customPadding(padding))
	return enc.EncodeToString(data), nil
}
