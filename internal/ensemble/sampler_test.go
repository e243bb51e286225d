package ensemble

import (
    "math"
    "testing"

    "github.com/google/go-cmp/cmp"
)

func TestDrawSubspaceDeterminism(t *testing.T) {
    a := DrawSubspace(0.5, 20, 42)
    b := DrawSubspace(0.5, 20, 42)
    if diff := cmp.Diff(a, b); diff != "" {
        t.Errorf("mesma seed gerou subespaços diferentes (-a +b):\n%s", diff)
    }
}

func TestDrawSubspaceProperties(t *testing.T) {
    cases := []struct {
        ratio   float64
        d       int
        wantLen int
    }{
        {0.5, 4, 2},
        {1.0, 4, 4},
        {0.1, 4, 1},
        {0.3, 10, 3},
        {0.01, 7, 1},
    }
    for _, c := range cases {
        for seed := int64(0); seed < 20; seed++ {
            sub := DrawSubspace(c.ratio, c.d, seed)
            if len(sub) != c.wantLen {
                t.Fatalf("ratio=%v d=%d seed=%d: len=%d, esperado %d", c.ratio, c.d, seed, len(sub), c.wantLen)
            }
            seen := map[int]bool{}
            for _, j := range sub {
                if j < 0 || j >= c.d {
                    t.Fatalf("índice %d fora de [0,%d)", j, c.d)
                }
                if seen[j] {
                    t.Fatalf("índice repetido %d em %v", j, sub)
                }
                seen[j] = true
            }
        }
    }
}

func TestDrawSubspaceVariesAcrossMembers(t *testing.T) {
    base := int64(7)
    first := DrawSubspace(0.25, 20, base)
    allEqual := true
    for i := int64(1); i < 10; i++ {
        if diff := cmp.Diff(first, DrawSubspace(0.25, 20, base+i)); diff != "" {
            allEqual = false
            break
        }
    }
    if allEqual {
        t.Error("10 membros sortearam exatamente o mesmo subespaço")
    }
}

func TestPlanBagsDeterminism(t *testing.T) {
    a := PlanBags(true, 0.6, 5, 500, 42)
    b := PlanBags(true, 0.6, 5, 500, 42)
    if diff := cmp.Diff(a, b); diff != "" {
        t.Errorf("mesma seed gerou planos diferentes:\n%s", diff)
    }
    // O plano do membro i depende só de (seed, i), não do total de membros.
    c := PlanBags(true, 0.6, 3, 500, 42)
    if diff := cmp.Diff(a[2], c[2]); diff != "" {
        t.Errorf("plano do membro 2 mudou com o número de membros:\n%s", diff)
    }
}

func TestPlanBagsExpectedSize(t *testing.T) {
    const n = 2000
    const seeds = 40
    for _, replacement := range []bool{false, true} {
        for _, ratio := range []float64{0.2, 0.5, 0.8, 1.0} {
            var total float64
            for seed := int64(0); seed < seeds; seed++ {
                counts := planBag(replacement, ratio, n, seed)
                for _, c := range counts {
                    if c < 0 {
                        t.Fatalf("contagem negativa")
                    }
                    if !replacement && c > 1 {
                        t.Fatalf("sem reposição gerou contagem %d", c)
                    }
                    total += float64(c)
                }
            }
            mean := total / seeds
            want := ratio * n
            if math.Abs(mean-want) > 0.05*want {
                t.Errorf("replacement=%v ratio=%v: tamanho médio do bag %.1f, esperado ≈%.1f", replacement, ratio, mean, want)
            }
        }
    }
}

func TestPlanBagsFullRatioWithoutReplacement(t *testing.T) {
    counts := planBag(false, 1.0, 100, 9)
    for i, c := range counts {
        if c != 1 {
            t.Fatalf("ratio=1.0 sem reposição: linha %d com contagem %d", i, c)
        }
    }
}
