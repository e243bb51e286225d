package ensemble

import (
    "math"
    "math/rand"
)

// PlanBags calcula, de uma só vez, a contagem de repetição de cada
// linha sob o bag de cada membro. O plano do membro i depende apenas de
// (seed, i): com reposição, contagens Poisson(λ=sampleRatio) por linha;
// sem reposição, inclusão Bernoulli(sampleRatio) 0/1.
func PlanBags(replacement bool, sampleRatio float64, numBaseLearners, numRows int, seed int64) [][]int {
    plans := make([][]int, numBaseLearners)
    for i := 0; i < numBaseLearners; i++ {
        plans[i] = planBag(replacement, sampleRatio, numRows, seed+int64(i))
    }
    return plans
}

func planBag(replacement bool, sampleRatio float64, numRows int, seed int64) []int {
    rng := rand.New(rand.NewSource(seed))
    counts := make([]int, numRows)
    for r := 0; r < numRows; r++ {
        if replacement {
            counts[r] = poisson(rng, sampleRatio)
        } else if rng.Float64() < sampleRatio {
            counts[r] = 1
        }
    }
    return counts
}

// poisson amostra por inversão de Knuth; λ ≤ 1 aqui, então o laço é curto.
func poisson(rng *rand.Rand, lambda float64) int {
    l := math.Exp(-lambda)
    k := 0
    p := 1.0
    for {
        p *= rng.Float64()
        if p <= l { return k }
        k++
    }
}

// DrawSubspace sorteia k = max(1, round(ratio×D)) índices de feature
// distintos em [0, D), sem reposição. A ordem do sorteio é preservada:
// ela define o layout posicional do vetor reduzido no fit e no predict.
func DrawSubspace(subspaceRatio float64, numFeatures int, seed int64) []int {
    k := int(math.Round(subspaceRatio * float64(numFeatures)))
    if k < 1 { k = 1 }
    if k > numFeatures { k = numFeatures }
    rng := rand.New(rand.NewSource(seed))
    perm := rng.Perm(numFeatures)
    out := make([]int, k)
    copy(out, perm[:k])
    return out
}
