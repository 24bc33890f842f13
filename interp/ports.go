package interp

import (
	"bufio"
	"io"
	"os"
)

// registerPorts binds the file and port primitives into the global
// environment. read, read-char, peek-char, write and write-char fall back to
// ctx.Stdin/ctx.Stdout when the caller omits the port argument, matching the
// optional-port convention ordinary Scheme read/write procedures use.
func registerPorts(ctx *Context) error {
	prims := map[string]Primitive{
		"load":              primLoad,
		"open-input-port":   primOpenInputPort,
		"close-input-port":  primCloseInputPort,
		"read":              primRead,
		"read-char":         primReadChar,
		"peek-char":         primPeekChar,
		"open-output-port":  primOpenOutputPort,
		"close-output-port": primCloseOutputPort,
		"write":             primWrite,
		"write-char":        primWriteChar,
	}
	for name, fn := range prims {
		if err := ctx.definePrimitive(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func primLoad(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "load")
	if err != nil {
		return nil, err
	}
	if !IsString(v) {
		return nil, newTypeError("load: not a string")
	}
	f, err := os.Open(v.Str)
	if err != nil {
		return nil, newIOError("load: %v", err)
	}
	defer f.Close()

	rd := NewReader(ctx, f)
	result := ctx.symOK
	for {
		mark := ctx.Heap.SaveRoots()
		exp, err := rd.Read()
		if err != nil {
			return nil, newReadError("load: %v", err)
		}
		if IsEOF(exp) {
			ctx.Heap.RestoreRoots(mark)
			break
		}
		v, err := Eval(ctx, exp, ctx.GlobalEnv)
		if err != nil {
			return nil, err
		}
		result = v
		ctx.Heap.RestoreRoots(mark)
	}
	if _, err := io.WriteString(ctx.Stdout.Port.Writer, "program-loaded\n"); err != nil {
		return nil, newIOError("load: %v", err)
	}
	return result, nil
}

func primOpenInputPort(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "open-input-port")
	if err != nil {
		return nil, err
	}
	if !IsString(v) {
		return nil, newTypeError("open-input-port: not a string")
	}
	f, err := os.Open(v.Str)
	if err != nil {
		return nil, newIOError("open-input-port: %v", err)
	}
	return ctx.newInputPort(v.Str, bufio.NewReader(f), f)
}

func primCloseInputPort(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "close-input-port")
	if err != nil {
		return nil, err
	}
	if v.Kind != KindInputPort {
		return nil, newTypeError("close-input-port: not an input port")
	}
	return closePort(ctx, v)
}

func primOpenOutputPort(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "open-output-port")
	if err != nil {
		return nil, err
	}
	if !IsString(v) {
		return nil, newTypeError("open-output-port: not a string")
	}
	f, err := os.OpenFile(v.Str, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, newIOError("open-output-port: %v", err)
	}
	return ctx.newOutputPort(v.Str, f, f)
}

func primCloseOutputPort(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "close-output-port")
	if err != nil {
		return nil, err
	}
	if v.Kind != KindOutputPort {
		return nil, newTypeError("close-output-port: not an output port")
	}
	return closePort(ctx, v)
}

func closePort(ctx *Context, v *Value) (*Value, error) {
	p := v.Port
	if !p.Closed && p.Closer != nil {
		if err := p.Closer.Close(); err != nil {
			return nil, newIOError("close: %v", err)
		}
	}
	p.Closed = true
	return ctx.symOK, nil
}

func inputPortArg(ctx *Context, vs []*Value, idx int, who string) (*Value, error) {
	if len(vs) <= idx {
		return ctx.Stdin, nil
	}
	p := vs[idx]
	if p.Kind != KindInputPort {
		return nil, newTypeError("%s: not an input port", who)
	}
	return p, nil
}

func outputPortArg(ctx *Context, vs []*Value, idx int, who string) (*Value, error) {
	if len(vs) <= idx {
		return ctx.Stdout, nil
	}
	p := vs[idx]
	if p.Kind != KindOutputPort {
		return nil, newTypeError("%s: not an output port", who)
	}
	return p, nil
}

func primRead(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	port, err := inputPortArg(ctx, vs, 0, "read")
	if err != nil {
		return nil, err
	}
	rd := &Reader{ctx: ctx, r: port.Port.Reader}
	return rd.Read()
}

func primReadChar(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	port, err := inputPortArg(ctx, vs, 0, "read-char")
	if err != nil {
		return nil, err
	}
	c, err := port.Port.Reader.ReadByte()
	if err == io.EOF {
		return ctx.EOF, nil
	}
	if err != nil {
		return nil, newIOError("read-char: %v", err)
	}
	return ctx.NewCharacter(c)
}

func primPeekChar(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	port, err := inputPortArg(ctx, vs, 0, "peek-char")
	if err != nil {
		return nil, err
	}
	b, err := port.Port.Reader.Peek(1)
	if err == io.EOF {
		return ctx.EOF, nil
	}
	if err != nil {
		return nil, newIOError("peek-char: %v", err)
	}
	return ctx.NewCharacter(b[0])
}

func primWrite(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) < 1 {
		return nil, newArityError("write: requires at least one argument")
	}
	port, err := outputPortArg(ctx, vs, 1, "write")
	if err != nil {
		return nil, err
	}
	if err := Write(port.Port.Writer, vs[0]); err != nil {
		return nil, err
	}
	return ctx.symOK, nil
}

func primWriteChar(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) < 1 {
		return nil, newArityError("write-char: requires at least one argument")
	}
	if !IsCharacter(vs[0]) {
		return nil, newTypeError("write-char: not a character")
	}
	port, err := outputPortArg(ctx, vs, 1, "write-char")
	if err != nil {
		return nil, err
	}
	if _, err := port.Port.Writer.Write([]byte{vs[0].Char}); err != nil {
		return nil, newIOError("write-char: %v", err)
	}
	return ctx.symOK, nil
}
