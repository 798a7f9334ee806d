package format

import "testing"

func TestFmtGBPTwoDecimals(t *testing.T) {
	cases := map[int64]string{
		2199:    "£21.99",
		6000:    "£60.00",
		5:       "£0.05",
		0:       "£0.00",
		123456:  "£1,234.56",
		-2199:   "-£21.99",
		3699:    "£36.99",
		1000000: "£10,000.00",
	}
	for in, want := range cases {
		if got := FmtGBP(in); got != want {
			t.Errorf("FmtGBP(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestMajor(t *testing.T) {
	cases := map[int64]string{
		6000: "60.00",
		2199: "21.99",
		5:    "0.05",
		-105: "-1.05",
	}
	for in, want := range cases {
		if got := Major(in); got != want {
			t.Errorf("Major(%d) = %q, want %q", in, got, want)
		}
	}
}
