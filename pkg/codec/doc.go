// Package codec provides book and catalog serialization for bdsm.
//
// The codec writes the binary format that bdsm data files consist of. There is
// no header, magic number or version tag: a data file is simply an encoded
// catalog.
//
// # Catalog Format
//
//	[Count(4)][Book]...[Book]
//
// Count is a 32-bit unsigned integer in native byte order, followed by exactly
// Count encoded books.
//
// # Book Format
//
//	[ISBN\0][Title\0][Author\0][Genre\0][Stocked(4)][Sold(4)][Price(8)]
//
// Fields:
//   - ISBN, Title, Author, Genre: UTF-8 bytes terminated by a single NUL byte
//   - Stocked: 32-bit unsigned integer, native byte order
//   - Sold: 32-bit unsigned integer, native byte order
//   - Price: IEEE 754 64-bit float, native byte order
//
// The smallest possible book is 20 bytes: four empty strings and the three
// fixed-width fields. Decoding never allocates more books up front than the
// remaining bytes could hold.
//
// # Usage
//
//	c := codec.NewBookCodec()
//
//	buf := buffer.New()
//	c.EncodeCatalog(store, buf)
//
//	buf.Rewind()
//	decoded, err := c.DecodeCatalog(buf)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Short input fails with ErrTruncatedData. A blob that decodes cleanly but
// would break catalog invariants (duplicate or empty ISBN) fails with
// ErrCorruptCatalog. In both cases no partially decoded catalog is returned.
//
// # Portability
//
// Because fixed-width fields use the host byte order, data files are only
// portable between machines of the same endianness.
package codec
