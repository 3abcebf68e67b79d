package helpers

// Collects the chunks of one output file (prelude, program text, trailing
// newline) and copies them into a single buffer sized exactly once.
type Joiner struct {
	chunks   []joinerChunk
	length   uint32
	lastByte byte
}

type joinerChunk struct {
	text   string
	data   []byte
	offset uint32
}

func (j *Joiner) AddString(text string) {
	if len(text) == 0 {
		return
	}
	j.lastByte = text[len(text)-1]
	j.chunks = append(j.chunks, joinerChunk{text: text, offset: j.length})
	j.length += uint32(len(text))
}

func (j *Joiner) AddBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	j.lastByte = data[len(data)-1]
	j.chunks = append(j.chunks, joinerChunk{data: data, offset: j.length})
	j.length += uint32(len(data))
}

func (j *Joiner) LastByte() byte {
	return j.lastByte
}

func (j *Joiner) Length() uint32 {
	return j.length
}

func (j *Joiner) EnsureNewlineAtEnd() {
	if j.length > 0 && j.lastByte != '\n' {
		j.AddString("\n")
	}
}

func (j *Joiner) Done() []byte {
	if len(j.chunks) == 1 && j.chunks[0].data != nil {
		// No need to allocate if there was only a single byte array written
		return j.chunks[0].data
	}
	buffer := make([]byte, j.length)
	for _, chunk := range j.chunks {
		if chunk.data != nil {
			copy(buffer[chunk.offset:], chunk.data)
		} else {
			copy(buffer[chunk.offset:], chunk.text)
		}
	}
	return buffer
}
