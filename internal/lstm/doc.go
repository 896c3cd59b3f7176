// Package lstm implements a stacked LSTM for sequence modeling over a fixed
// vocabulary.
//
// A Stack is an ordered list of Cells. Layer 0 is output-facing: it produces
// the softmax distribution the loss is computed on. The last layer receives
// the one-hot encoded input. Every layer p > 0 feeds its per-timestep output
// into layer p-1 as that layer's external input.
//
// Each Cell concatenates the previous hidden state with its external input:
//
//	X = [h_prev (N) | input (X)]        S = N + X
//	f = σ(Wf·X + bf)    i = σ(Wi·X + bi)    o = σ(Wo·X + bo)
//	c̃ = tanh(Wc·X + bc)
//	c = f ⊙ c_old + i ⊙ c̃
//	h = o ⊙ tanh(c)
//	y = softmax((Wy·h + by) / T)        (output-facing layer)
//	y = act(Wy·h + by)                  (other layers)
//
// Every intermediate value is recorded in a Cache so Backward can compute
// exact gradients; gradients accumulate across calls until ZeroGradients.
package lstm
