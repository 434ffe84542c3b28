package degrade

import (
	"math/rand/v2"
	"testing"

	"github.com/stigtools/tcrsim/internal/sampler"
)

func TestNew_RejectsUnrecognizedMethod(t *testing.T) {
	s := sampler.New(rand.New(rand.NewPCG(1, 0)))
	if _, err := New(s, Options{Method: "bogus"}); err == nil {
		t.Error("New() expected error for unrecognized method, got nil")
	}
}

func TestNew_PhredRequiresString(t *testing.T) {
	s := sampler.New(rand.New(rand.NewPCG(1, 0)))
	if _, err := New(s, Options{Method: Phred}); err == nil {
		t.Error("New() expected error for phred method without a phred string, got nil")
	}
}

func TestNew_FastqRequiresCorpus(t *testing.T) {
	s := sampler.New(rand.New(rand.NewPCG(1, 0)))
	if _, err := New(s, Options{Method: Fastq}); err == nil {
		t.Error("New() expected error for fastq method without a corpus, got nil")
	}
}

func TestDegrade_LogisticZeroErrorRateLeavesReadUnchanged(t *testing.T) {
	s := sampler.New(rand.New(rand.NewPCG(1, 0)))
	d, err := New(s, Options{Method: Logistic, Logistic: LogisticParams{BaseError: 0, L: 0, K: 1, Midpoint: 20}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	read := "ACGTACGTACGT"
	res := d.Degrade(read, 0)
	if res.Seq != read {
		t.Errorf("Degrade() seq = %q, want unchanged %q", res.Seq, read)
	}
	for i := 0; i < len(res.Quality); i++ {
		if res.Quality[i] != 41+33 {
			t.Errorf("Degrade() quality char = %q, want max-quality %q", res.Quality[i], byte(41+33))
		}
	}
}

func TestDegrade_PhredMethodClampsPastStringLength(t *testing.T) {
	s := sampler.New(rand.New(rand.NewPCG(1, 0)))
	d, err := New(s, Options{Method: Phred, Phred: "I"}) // single-char reference string
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res := d.Degrade("ACGTACGT", 0)
	if len(res.Quality) != 8 {
		t.Fatalf("len(Quality) = %d, want 8", len(res.Quality))
	}
}

func TestDegrade_FastqSequentialCyclesCorpus(t *testing.T) {
	s := sampler.New(rand.New(rand.NewPCG(1, 0)))
	corpus := []string{"III", "JJJ"}
	d, err := New(s, Options{Method: Fastq, Corpus: corpus})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := d.phredStringFor(0); got != "III" {
		t.Errorf("phredStringFor(0) = %q, want III", got)
	}
	if got := d.phredStringFor(1); got != "JJJ" {
		t.Errorf("phredStringFor(1) = %q, want JJJ", got)
	}
	if got := d.phredStringFor(2); got != "III" {
		t.Errorf("phredStringFor(2) = %q, want III (cycled)", got)
	}
}

func TestPhredChar_RoundTripsThroughErrorRate(t *testing.T) {
	for _, rate := range []float64{0.5, 0.1, 0.01, 0.001} {
		c := phredChar(rate)
		back := phredCharToError(c)
		if back <= 0 {
			t.Errorf("phredCharToError(phredChar(%v)) = %v, want positive", rate, back)
		}
		if again := phredChar(back); again != c {
			t.Errorf("phredChar(phredCharToError(%q)) = %q, want %q", c, again, c)
		}
	}
}

func TestDisplay_ReturnsOneRatePerPosition(t *testing.T) {
	p := LogisticParams{BaseError: 0.001, L: 0.05, K: 0.3, Midpoint: 25}
	rates := Display(p, 48)
	if len(rates) != 48 {
		t.Fatalf("len(Display()) = %d, want 48", len(rates))
	}
	for i, r := range rates {
		if r < 0 || r > 1 {
			t.Errorf("rates[%d] = %v, want in [0,1]", i, r)
		}
	}
	// The logistic curve is monotonically increasing in i for K > 0.
	if rates[47] <= rates[0] {
		t.Errorf("rates[47] = %v, rates[0] = %v, want rates[47] > rates[0]", rates[47], rates[0])
	}
}

func TestJitter_ClampsToUnitInterval(t *testing.T) {
	s := sampler.New(rand.New(rand.NewPCG(1, 0)))
	for i := 0; i < 200; i++ {
		r := jitter(s, 0.9, 5.0)
		if r < 0 || r > 1 {
			t.Errorf("jitter() = %v, want in [0,1]", r)
		}
	}
}
