package scheme

import "fmt"

// helloWorld is a trivial XOR-keystream "scheme" with no lattice math at
// all, kept around (as the original project keeps its own HELLO_WORLD row)
// purely to exercise the dispatch table and error queue end to end without
// the cost of a real scheme's keygen.
type helloWorld struct {
	key []byte
}

func init() {
	Register(HelloWorld, func() Scheme { return &helloWorld{} })
}

func (h *helloWorld) Kind() Kind { return HelloWorld }

func (h *helloWorld) Create(inst *Instance, paramSet int) error {
	inst.State = &helloWorld{}
	return nil
}

func (h *helloWorld) Destroy(inst *Instance) error {
	return nil
}

func (h *helloWorld) KeyGen(inst *Instance) error {
	st := inst.State.(*helloWorld)
	key := make([]byte, 32)
	if _, err := inst.PRNGs[0].Read(key); err != nil {
		return fmt.Errorf("helloworld: keygen: %w", err)
	}
	st.key = key
	inst.Keys.PrivateRaw = key
	return nil
}

func (h *helloWorld) Encrypt(inst *Instance, msg []byte) ([]byte, error) {
	st := inst.State.(*helloWorld)
	if st.key == nil {
		return nil, fmt.Errorf("helloworld: encrypt: no key loaded")
	}
	out := make([]byte, len(msg))
	for i, b := range msg {
		out[i] = b ^ st.key[i%len(st.key)]
	}
	return out, nil
}

func (h *helloWorld) Decrypt(inst *Instance, ciphertext []byte) ([]byte, error) {
	return h.Encrypt(inst, ciphertext)
}
