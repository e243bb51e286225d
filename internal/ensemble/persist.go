package ensemble

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"

    "github.com/goccy/go-json"

    "bagreg/internal/regressors"
)

const classIdentifier = "bagreg.Ensemble"
const metadataFileName = "metadata.json"
const templateDirName = "template"
const subspaceFileName = "subspace.json"

// ErrMissingArtifact indica um ensemble persistido incompleto: há
// metadados mas falta o artefato de algum membro (gravação parcial).
var ErrMissingArtifact = errors.New("artefato do ensemble ausente")

type metadata struct {
    Class         string `json:"class"`
    UID           string `json:"uid"`
    Params        Params `json:"params"`
    NumBaseModels int    `json:"numBaseModels"`
}

type subspaceRecord struct {
    Subspace []int `json:"subspace"`
}

func modelDir(dir string, i int) string { return filepath.Join(dir, fmt.Sprintf("model-%d", i)) }
func dataDir(dir string, i int) string  { return filepath.Join(dir, fmt.Sprintf("data-%d", i)) }

// Save grava metadados, o template (pelo codec do próprio aprendiz) e,
// por membro i, o modelo em model-<i> e o subespaço em data-<i>.
func Save(e *Ensemble, dir string) error {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return err
    }

    meta := metadata{
        Class:         classIdentifier,
        UID:           e.UID,
        Params:        e.Params,
        NumBaseModels: len(e.Members),
    }
    raw, err := json.MarshalIndent(meta, "", "  ")
    if err != nil {
        return err
    }
    if err := os.WriteFile(filepath.Join(dir, metadataFileName), raw, 0o644); err != nil {
        return err
    }

    if err := e.Template.Save(filepath.Join(dir, templateDirName)); err != nil {
        return fmt.Errorf("salvar template: %w", err)
    }

    for i, m := range e.Members {
        if err := m.Model.Save(modelDir(dir, i)); err != nil {
            return fmt.Errorf("salvar modelo %d: %w", i, err)
        }
        dd := dataDir(dir, i)
        if err := os.MkdirAll(dd, 0o755); err != nil {
            return err
        }
        rec, err := json.Marshal(subspaceRecord{Subspace: m.Subspace})
        if err != nil {
            return err
        }
        if err := os.WriteFile(filepath.Join(dd, subspaceFileName), rec, 0o644); err != nil {
            return err
        }
    }
    return nil
}

// Load reconstrói o ensemble na ordem dos índices. Qualquer artefato
// faltando para i < numBaseModels é erro fatal: um ensemble truncado
// nunca é devolvido.
func Load(dir string) (*Ensemble, error) {
    raw, err := os.ReadFile(filepath.Join(dir, metadataFileName))
    if err != nil {
        return nil, err
    }
    var meta metadata
    if err := json.Unmarshal(raw, &meta); err != nil {
        return nil, fmt.Errorf("metadados inválidos em %s: %w", dir, err)
    }
    if meta.Class != classIdentifier {
        return nil, fmt.Errorf("classe inesperada %q em %s (esperado %q)", meta.Class, dir, classIdentifier)
    }

    tmpl, err := regressors.Load(filepath.Join(dir, templateDirName))
    if err != nil {
        return nil, fmt.Errorf("carregar template: %w", err)
    }

    members := make([]Member, meta.NumBaseModels)
    for i := 0; i < meta.NumBaseModels; i++ {
        md := modelDir(dir, i)
        if _, err := os.Stat(md); err != nil {
            return nil, fmt.Errorf("%w: model-%d em %s", ErrMissingArtifact, i, dir)
        }
        model, err := regressors.Load(md)
        if err != nil {
            return nil, fmt.Errorf("carregar modelo %d: %w", i, err)
        }

        sp := filepath.Join(dataDir(dir, i), subspaceFileName)
        rawSub, err := os.ReadFile(sp)
        if err != nil {
            if os.IsNotExist(err) {
                return nil, fmt.Errorf("%w: data-%d em %s", ErrMissingArtifact, i, dir)
            }
            return nil, err
        }
        var rec subspaceRecord
        if err := json.Unmarshal(rawSub, &rec); err != nil {
            return nil, fmt.Errorf("subespaço %d inválido: %w", i, err)
        }
        members[i] = Member{Subspace: rec.Subspace, Model: model}
    }

    return &Ensemble{
        UID:      meta.UID,
        Params:   meta.Params,
        Template: tmpl,
        Members:  members,
    }, nil
}
