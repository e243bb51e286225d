package ensemble

import (
    "errors"
    "fmt"

    "github.com/google/uuid"
    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"

    "bagreg/internal/dataset"
    "bagreg/internal/regressors"
    "bagreg/pkg/utils"
)

// Train ajusta um ensemble de bagging: um plano de bags e subespaços
// determinístico a partir da seed, um fit por membro sob um limite de
// paralelismo, e coleta na ordem de submissão (índice do membro),
// independente da ordem de conclusão.
func Train(ds *dataset.Dataset, cfg Config) (*Ensemble, error) {
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    log := utils.Logger()

    useWeights := false
    if cfg.WeightCol != "" {
        _, weighted := cfg.BaseLearner.(regressors.WeightedRegressor)
        switch {
        case !weighted:
            log.Warn("Aprendiz de base não suporta pesos; treinando sem peso",
                zap.String("weight_col", cfg.WeightCol),
                zap.String("base_learner", cfg.BaseLearner.Name()))
        case !ds.HasWeights():
            log.Warn("Coluna de peso configurada mas ausente no dataset; treinando sem peso",
                zap.String("weight_col", cfg.WeightCol))
        default:
            useWeights = true
        }
    }

    proj, err := ds.Select(ds.FeatureNames()...)
    if err != nil {
        return nil, fmt.Errorf("projeção do dataset: %w", err)
    }
    if !useWeights {
        proj = proj.WithoutWeights()
    }

    // O cache é criado uma única vez e liberado em todo caminho de
    // saída, sucesso ou falha.
    if !ds.Cached() && !proj.Cached() {
        proj.Cache()
        defer proj.Uncache()
    }

    n := proj.NumRows()
    if n == 0 {
        return nil, errors.New("dataset vazio")
    }
    d := proj.NumFeatures()

    plans := PlanBags(cfg.Replacement, cfg.SampleRatio, cfg.NumBaseLearners, n, cfg.Seed)

    log.Info("Treinando ensemble",
        zap.Int("membros", cfg.NumBaseLearners),
        zap.Int("linhas", n),
        zap.Int("features", d),
        zap.Int("paralelismo", cfg.Parallelism),
        zap.Bool("com_peso", useWeights),
        zap.Int64("seed", cfg.Seed))

    members := make([]Member, cfg.NumBaseLearners)
    var g errgroup.Group
    g.SetLimit(cfg.Parallelism)
    for i := 0; i < cfg.NumBaseLearners; i++ {
        i := i
        g.Go(func() error {
            sub := DrawSubspace(cfg.SubspaceRatio, d, cfg.Seed+int64(i))
            model, err := fitMember(proj, plans[i], sub, cfg.BaseLearner, useWeights)
            if err != nil {
                return fmt.Errorf("membro %d: %w", i, err)
            }
            members[i] = Member{Subspace: sub, Model: model}
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return nil, err
    }

    return &Ensemble{
        UID: uuid.NewString(),
        Params: Params{
            WeightCol:       cfg.WeightCol,
            Replacement:     cfg.Replacement,
            SampleRatio:     cfg.SampleRatio,
            SubspaceRatio:   cfg.SubspaceRatio,
            NumBaseLearners: cfg.NumBaseLearners,
            Parallelism:     cfg.Parallelism,
            Seed:            cfg.Seed,
            NumFeatures:     d,
        },
        Template: cfg.BaseLearner,
        Members:  members,
    }, nil
}

// fitMember monta a visão do bag (linhas expandidas pela contagem de
// repetição, features fatiadas pelo subespaço) e ajusta um clone novo
// do template. Erros do aprendiz de base sobem sem retry.
func fitMember(proj *dataset.Dataset, counts []int, subspace []int, tmpl regressors.Regressor, useWeights bool) (regressors.Regressor, error) {
    var X [][]float64
    var y, w []float64
    for r, c := range counts {
        if c == 0 { continue }
        sl := sliceBySubspace(proj.Row(r), subspace)
        for k := 0; k < c; k++ {
            X = append(X, sl)
            y = append(y, proj.Label(r))
            if useWeights { w = append(w, proj.Weight(r)) }
        }
    }
    clone := tmpl.Clone()
    if useWeights {
        if err := clone.(regressors.WeightedRegressor).FitWeighted(X, y, w); err != nil {
            return nil, err
        }
        return clone, nil
    }
    if err := clone.Fit(X, y); err != nil {
        return nil, err
    }
    return clone, nil
}
