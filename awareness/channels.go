package awareness

// maxChannels is the number of channels a 32 bit semantic mask can address.
const maxChannels = 32

// ChannelTable is the ordered list of semantic channel names of one buffer. Channel i is present
// at a pixel when bit 1<<i of the pixel's mask is set. Indices are only stable for the buffer the
// table came with.
type ChannelTable struct {
	names []string
}

// NewChannelTable copies names into a new table.
func NewChannelTable(names ...string) ChannelTable {
	return ChannelTable{names: append([]string(nil), names...)}
}

// Len returns the number of channels.
func (ct ChannelTable) Len() int {
	return len(ct.names)
}

// Names returns a copy of the channel names.
func (ct ChannelTable) Names() []string {
	return append([]string{}, ct.names...)
}

// Index returns the index of the named channel, or -1.
func (ct ChannelTable) Index(name string) int {
	for i, n := range ct.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Mask returns the bit of the channel at index, or 0 if there is no such channel.
func (ct ChannelTable) Mask(index int) uint32 {
	if index < 0 || index >= len(ct.names) || index >= maxChannels {
		return 0
	}
	return 1 << uint(index)
}

// MaskForName returns the bit of the named channel, or 0 if there is no such channel.
func (ct ChannelTable) MaskForName(name string) uint32 {
	return ct.Mask(ct.Index(name))
}

// MaskFor returns the union of the bits of the channels at the given indices.
func (ct ChannelTable) MaskFor(indices ...int) uint32 {
	var mask uint32
	for _, i := range indices {
		mask |= ct.Mask(i)
	}
	return mask
}

// MaskForNames returns the union of the bits of the named channels.
func (ct ChannelTable) MaskForNames(names ...string) uint32 {
	var mask uint32
	for _, n := range names {
		mask |= ct.MaskForName(n)
	}
	return mask
}

// Indices decomposes a pixel mask into the indices of the channels it contains.
func (ct ChannelTable) Indices(mask uint32) []int {
	out := []int{}
	for i := range ct.names {
		if mask&ct.Mask(i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// NamesIn decomposes a pixel mask into the names of the channels it contains.
func (ct ChannelTable) NamesIn(mask uint32) []string {
	out := []string{}
	for i, n := range ct.names {
		if mask&ct.Mask(i) != 0 {
			out = append(out, n)
		}
	}
	return out
}
