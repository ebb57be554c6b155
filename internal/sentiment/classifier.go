package sentiment

import (
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	labelRawPositive = "POSITIVE"
	labelRawNegative = "NEGATIVE"

	// Inputs longer than this are truncated before scoring, never rejected.
	inputCharLimit = 512
)

// Classifier runs a binary sentiment model (SST-2 style: two logits,
// index 0 negative, index 1 positive) through ONNX Runtime.
type Classifier struct {
	mu sync.Mutex

	modelPath string
	vocabPath string
	maxTokens int
	libPath   string

	session   *ort.DynamicAdvancedSession
	tokenizer *wordpieceTokenizer
	inited    bool
	initErr   error
}

// NewClassifier creates a classifier that lazily loads the ONNX model and
// vocabulary on first use.
func NewClassifier(modelPath, vocabPath, onnxLibPath string, maxTokens int) *Classifier {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Classifier{
		modelPath: modelPath,
		vocabPath: vocabPath,
		maxTokens: maxTokens,
		libPath:   onnxLibPath,
	}
}

// initOnce loads the ONNX shared library, environment, vocabulary, and
// session. A failed init is remembered: the model load is attempted at most
// once per process.
func (c *Classifier) initOnce() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inited {
		return c.initErr
	}
	c.inited = true

	if c.libPath != "" {
		ort.SetSharedLibraryPath(c.libPath)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		c.initErr = fmt.Errorf("onnx init environment: %w", err)
		return c.initErr
	}

	tokenizer, err := newWordpieceTokenizer(c.vocabPath)
	if err != nil {
		c.initErr = fmt.Errorf("load vocab: %w", err)
		return c.initErr
	}
	c.tokenizer = tokenizer

	session, err := ort.NewDynamicAdvancedSession(
		c.modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		c.initErr = fmt.Errorf("onnx new session: %w", err)
		return c.initErr
	}
	c.session = session
	return nil
}

// Classify tokenizes the (truncated) text, runs inference, and returns the
// winning raw label with its softmax probability.
func (c *Classifier) Classify(text string) (string, float64, error) {
	if err := c.initOnce(); err != nil {
		return "", 0, err
	}

	if runes := []rune(text); len(runes) > inputCharLimit {
		text = string(runes[:inputCharLimit])
	}

	ids, mask := c.tokenizer.Encode(text, c.maxTokens)
	shape := ort.NewShape(1, int64(len(ids)))

	inputTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return "", 0, fmt.Errorf("onnx new input tensor: %w", err)
	}
	defer inputTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return "", 0, fmt.Errorf("onnx new mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	c.mu.Lock()
	err = c.session.Run([]ort.Value{inputTensor, maskTensor}, outputs)
	c.mu.Unlock()
	if err != nil {
		return "", 0, fmt.Errorf("onnx run: %w", err)
	}
	defer outputs[0].Destroy()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return "", 0, fmt.Errorf("unexpected output tensor type")
	}
	data := logits.GetData()
	if len(data) < 2 {
		return "", 0, fmt.Errorf("model returned %d logits, want 2", len(data))
	}

	negProb, posProb := softmax2(float64(data[0]), float64(data[1]))
	if posProb >= negProb {
		return labelRawPositive, posProb, nil
	}
	return labelRawNegative, negProb, nil
}

func softmax2(a, b float64) (float64, float64) {
	m := math.Max(a, b)
	ea := math.Exp(a - m)
	eb := math.Exp(b - m)
	sum := ea + eb
	return ea / sum, eb / sum
}
