package command

import "testing"

func TestCompilePatternMatchesLiteralWords(t *testing.T) {
	p, err := CompilePattern("say hello")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if _, ok := p.Match("say hello"); !ok {
		t.Fatalf("expected exact literal to match")
	}
	if _, ok := p.Match("say goodbye"); ok {
		t.Fatalf("expected differing literal not to match")
	}
}

func TestCompilePatternIsCaseInsensitive(t *testing.T) {
	p, err := CompilePattern("look")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if _, ok := p.Match("LOOK"); !ok {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestCompilePatternTildeAllowsAnyContiguousPrefix(t *testing.T) {
	p, err := CompilePattern("l~ook")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	for _, in := range []string{"l", "lo", "loo", "look"} {
		if _, ok := p.Match(in); !ok {
			t.Errorf("expected prefix %q to match", in)
		}
	}
	if _, ok := p.Match("lk"); ok {
		t.Errorf("expected non-contiguous fragment %q not to match", "lk")
	}
	if _, ok := p.Match("looks"); ok {
		t.Errorf("expected overrun %q not to match", "looks")
	}
}

func TestCompilePatternQuotedLiteralMatchesAsOneUnit(t *testing.T) {
	p, err := CompilePattern("emote 'waves hello'")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if _, ok := p.Match("emote waves hello"); !ok {
		t.Fatalf("expected quoted phrase to match")
	}
	if _, ok := p.Match("emote waves"); ok {
		t.Fatalf("expected partial phrase not to match")
	}
}

func TestCompilePatternUnterminatedQuoteIsAnError(t *testing.T) {
	if _, err := CompilePattern("emote 'waves hello"); err == nil {
		t.Fatalf("expected an error for an unterminated quoted literal")
	}
}

func TestCompilePatternRequiredArgumentHoleMustBePresent(t *testing.T) {
	p, err := CompilePattern("get <item:item>")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	raw, ok := p.Match("get sword")
	if !ok {
		t.Fatalf("expected match with required argument present")
	}
	if raw["item"] != "sword" {
		t.Errorf("item = %q, want sword", raw["item"])
	}
	if _, ok := p.Match("get"); ok {
		t.Fatalf("expected no match when required argument is missing")
	}
}

func TestCompilePatternOptionalArgumentHoleMayBeAbsent(t *testing.T) {
	p, err := CompilePattern("look <target:object?>")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if raw, ok := p.Match("look"); !ok {
		t.Fatalf("expected match with optional argument absent")
	} else if _, present := raw["target"]; present {
		t.Errorf("expected no target captured, got %q", raw["target"])
	}
	raw, ok := p.Match("look goblin")
	if !ok {
		t.Fatalf("expected match with optional argument present")
	}
	if raw["target"] != "goblin" {
		t.Errorf("target = %q, want goblin", raw["target"])
	}
}

func TestCompilePatternTextArgumentIsGreedyToEndOfLine(t *testing.T) {
	p, err := CompilePattern("say <message:text>")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	raw, ok := p.Match("say hello there, friend")
	if !ok {
		t.Fatalf("expected match")
	}
	if raw["message"] != "hello there, friend" {
		t.Errorf("message = %q, want %q", raw["message"], "hello there, friend")
	}
}

func TestCompilePatternRejectsUnrecognizedKind(t *testing.T) {
	if _, err := CompilePattern("get <item:widget>"); err == nil {
		t.Fatalf("expected an error for an unrecognized kind")
	}
}

func TestCompilePatternRejectsMalformedArgumentHole(t *testing.T) {
	if _, err := CompilePattern("get <item>"); err == nil {
		t.Fatalf("expected an error for a malformed argument hole")
	}
}

func TestPatternArgsReturnsDeclarationOrder(t *testing.T) {
	p, err := CompilePattern("give <item:item> to <target:mob>")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	args := p.Args()
	if len(args) != 2 || args[0].Name != "item" || args[1].Name != "target" {
		t.Fatalf("Args() = %+v, want [item target] in order", args)
	}
}
