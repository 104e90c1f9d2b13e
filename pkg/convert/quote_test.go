package convert

import (
	"testing"

	"github.com/nuposix/nuposix/pkg/tt"
)

var It = tt.Args

func TestQuote(t *testing.T) {
	tt.Test(t, tt.Fn("Quote", Quote), tt.Table{
		It("hello").Rets("hello"),
		It("file.txt").Rets("file.txt"),
		It("-x").Rets("-x"),
		It("/usr/local/bin").Rets("/usr/local/bin"),
		It("").Rets(`""`),
		It("hello world").Rets(`"hello world"`),
		It("*.go").Rets(`"*.go"`),
		It("a|b").Rets(`"a|b"`),
		It("x=y").Rets(`"x=y"`),
		It(`back\slash`).Rets(`"back\\slash"`),
		It(`say "hi"`).Rets(`"say \"hi\""`),

		// Variable references keep their meaning only when left bare.
		It("$HOME").Rets("$HOME"),
		It("$env.PATH").Rets("$env.PATH"),
		It("$1").Rets("$1"),

		// Already-quoted input passes through.
		It(`"already"`).Rets(`"already"`),
		It(`"with space"`).Rets(`"with space"`),
	})
}

func TestQuoteForce(t *testing.T) {
	tt.Test(t, tt.Fn("QuoteForce", QuoteForce), tt.Table{
		It("hello").Rets(`"hello"`),
		It("").Rets(`""`),
		It("hello world").Rets(`"hello world"`),
		It(`say "hi"`).Rets(`"say \"hi\""`),
		It("$HOME").Rets("$HOME"),
		It(`"already"`).Rets(`"already"`),
	})
}

func TestQuote_Idempotent(t *testing.T) {
	words := []string{
		"hello", "", "hello world", "*.go", `say "hi"`, `back\slash`,
		"$HOME", "-rf", "a|b&c;d", "half\"quoted", `"done"`,
	}
	for _, w := range words {
		for name, f := range map[string]func(string) string{
			"Quote": Quote, "QuoteForce": QuoteForce,
		} {
			once := f(w)
			if twice := f(once); twice != once {
				t.Errorf("%s(%q) = %q, but %s applied again = %q",
					name, w, once, name, twice)
			}
		}
	}
}
