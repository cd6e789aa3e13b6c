package video

/*
#cgo pkg-config: libavformat libavcodec libavutil libswscale

#include <stdlib.h>
#include <libavformat/avformat.h>
#include <libavcodec/avcodec.h>
#include <libavutil/imgutils.h>
#include <libavutil/log.h>
#include <libswscale/swscale.h>

typedef struct {
    AVFormatContext   *formatCtx;
    AVCodecContext    *codecCtx;
    AVFrame           *frame;
    AVFrame           *frameRGBA;
    struct SwsContext *swsCtx;
    int                videoStream;
    uint8_t           *bufferRGBA;
    int                outW;
    int                outH;
} TableDecoder;

// open_table_decoder opens filename and prepares RGBA output scaled to
// outW x outH (stream dimensions when either is zero). Returns 0 on success;
// on failure the caller must still run close_table_decoder to unwind
// whatever was acquired.
static int open_table_decoder(const char *filename, int outW, int outH, TableDecoder *d) {
    av_log_set_level(AV_LOG_ERROR);
    d->videoStream = -1;

    if (avformat_open_input(&d->formatCtx, filename, NULL, NULL) != 0) {
        return -1;
    }
    if (avformat_find_stream_info(d->formatCtx, NULL) < 0) {
        return -2;
    }

    for (unsigned int i = 0; i < d->formatCtx->nb_streams; i++) {
        if (d->formatCtx->streams[i]->codecpar->codec_type == AVMEDIA_TYPE_VIDEO) {
            d->videoStream = (int)i;
            break;
        }
    }
    if (d->videoStream == -1) {
        return -3;
    }

    AVCodecParameters *par = d->formatCtx->streams[d->videoStream]->codecpar;

    // Honour VIDEO_DECODER when it names a decoder for this stream's codec,
    // e.g. a hardware decoder on cabinet hardware.
    const AVCodec *codec = NULL;
    const char *envDecoder = getenv("VIDEO_DECODER");
    if (envDecoder && envDecoder[0] != '\0') {
        codec = avcodec_find_decoder_by_name(envDecoder);
        if (codec && codec->id != par->codec_id) {
            codec = NULL;
        }
    }
    if (!codec) {
        codec = avcodec_find_decoder(par->codec_id);
    }
    if (!codec) {
        return -4;
    }

    d->codecCtx = avcodec_alloc_context3(codec);
    if (!d->codecCtx) {
        return -5;
    }
    avcodec_parameters_to_context(d->codecCtx, par);
    d->codecCtx->thread_type = FF_THREAD_FRAME;
    d->codecCtx->thread_count = 0;
    if (avcodec_open2(d->codecCtx, codec, NULL) < 0) {
        return -6;
    }

    d->outW = outW > 0 ? outW : d->codecCtx->width;
    d->outH = outH > 0 ? outH : d->codecCtx->height;

    d->frame = av_frame_alloc();
    d->frameRGBA = av_frame_alloc();
    if (!d->frame || !d->frameRGBA) {
        return -7;
    }

    int numBytes = av_image_get_buffer_size(AV_PIX_FMT_RGBA, d->outW, d->outH, 1);
    d->bufferRGBA = (uint8_t *)av_malloc((size_t)numBytes);
    if (!d->bufferRGBA) {
        return -8;
    }
    av_image_fill_arrays(d->frameRGBA->data, d->frameRGBA->linesize, d->bufferRGBA,
                         AV_PIX_FMT_RGBA, d->outW, d->outH, 1);

    d->swsCtx = sws_getContext(d->codecCtx->width, d->codecCtx->height, d->codecCtx->pix_fmt,
                               d->outW, d->outH, AV_PIX_FMT_RGBA,
                               SWS_BILINEAR, NULL, NULL, NULL);
    if (!d->swsCtx) {
        return -9;
    }
    return 0;
}

// next_table_frame decodes the next video frame into the RGBA scratch frame.
// Returns 1 on frame, 0 on end of stream, negative on error.
static int next_table_frame(TableDecoder *d, uint8_t **rgba) {
    AVPacket packet;
    int ret;

    while (av_read_frame(d->formatCtx, &packet) >= 0) {
        if (packet.stream_index != d->videoStream) {
            av_packet_unref(&packet);
            continue;
        }
        ret = avcodec_send_packet(d->codecCtx, &packet);
        av_packet_unref(&packet);
        if (ret < 0) {
            return -1;
        }
        ret = avcodec_receive_frame(d->codecCtx, d->frame);
        if (ret == AVERROR(EAGAIN)) {
            continue;
        }
        if (ret == AVERROR_EOF) {
            return 0;
        }
        if (ret < 0) {
            return -2;
        }

        sws_scale(d->swsCtx,
                  (const uint8_t * const *)d->frame->data, d->frame->linesize,
                  0, d->codecCtx->height,
                  d->frameRGBA->data, d->frameRGBA->linesize);
        *rgba = d->frameRGBA->data[0];
        return 1;
    }
    return 0;
}

// rewind_table_decoder seeks back to the first frame so playback loops at
// the decoder level, independent of any per-media repeat count.
static void rewind_table_decoder(TableDecoder *d) {
    av_seek_frame(d->formatCtx, d->videoStream, 0, AVSEEK_FLAG_BACKWARD);
    avcodec_flush_buffers(d->codecCtx);
}

static double table_decoder_fps(TableDecoder *d) {
    if (!d || d->videoStream < 0) {
        return 0;
    }
    AVStream *st = d->formatCtx->streams[d->videoStream];
    AVRational r = av_guess_frame_rate(d->formatCtx, st, NULL);
    if (r.den == 0) {
        return 0;
    }
    return av_q2d(r);
}

static void close_table_decoder(TableDecoder *d) {
    if (!d) return;
    if (d->swsCtx) {
        sws_freeContext(d->swsCtx);
        d->swsCtx = NULL;
    }
    av_free(d->bufferRGBA);
    d->bufferRGBA = NULL;
    av_frame_free(&d->frameRGBA);
    av_frame_free(&d->frame);
    avcodec_free_context(&d->codecCtx);
    if (d->formatCtx) {
        avformat_close_input(&d->formatCtx);
    }
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
)

const fallbackFPS = 30

// ffmpegDecoder bridges the FFmpeg demux/decode pipeline into the FrameSink
// push model. A pump goroutine paces frames at the stream's rate and loops
// indefinitely until stopped.
type ffmpegDecoder struct {
	log      zerolog.Logger
	path     string
	cdec     C.TableDecoder
	fps      float64
	frameLen int

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	closed  bool
	running atomic.Bool
}

// NewFFmpegDecoder opens path for decoding with RGBA output scaled to
// width×height. On any failure everything acquired so far is released and an
// error is returned.
func NewFFmpegDecoder(path string, width, height int32, log zerolog.Logger) (Decoder, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	d := &ffmpegDecoder{log: log, path: path}
	if ret := C.open_table_decoder(cPath, C.int(width), C.int(height), &d.cdec); ret != 0 {
		C.close_table_decoder(&d.cdec)
		return nil, fmt.Errorf("failed to open decoder for %s (code=%d)", path, int(ret))
	}

	d.fps = float64(C.table_decoder_fps(&d.cdec))
	if d.fps <= 0 {
		d.fps = fallbackFPS
	}
	d.frameLen = int(d.cdec.outW) * int(d.cdec.outH) * 4
	return d, nil
}

// Start launches the pump goroutine. No-op while already running.
func (d *ffmpegDecoder) Start(sink FrameSink) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.New("decoder closed")
	}
	if !canStartRun(d.stopCh, d.doneCh) {
		return nil
	}

	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	d.running.Store(true)
	go d.pump(sink, d.stopCh, d.doneCh)
	return nil
}

// pump runs on its own goroutine: it is the "decoder thread" that invokes
// the sink's lock/unlock/display hooks, independent of the render cadence.
func (d *ffmpegDecoder) pump(sink FrameSink, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer d.running.Store(false)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / d.fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		var data *C.uint8_t
		ret := C.next_table_frame(&d.cdec, &data)
		if ret == 0 {
			C.rewind_table_decoder(&d.cdec)
			continue
		}
		if ret < 0 {
			d.log.Error().Str("path", d.path).Int("code", int(ret)).Msg("decode failed, skipping frame")
			continue
		}

		buf := sink.LockPixels()
		if buf == nil {
			// Sink is tearing down; leave the previous frame in place.
			continue
		}
		src := unsafe.Slice((*byte)(unsafe.Pointer(data)), d.frameLen)
		copy(buf, src)
		sink.UnlockPixels()
		sink.FrameDisplayed()
	}
}

// Stop signals the pump to halt without waiting for it.
func (d *ffmpegDecoder) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopCh == nil {
		return
	}
	select {
	case <-d.stopCh:
	default:
		close(d.stopCh)
	}
}

// Running reports whether the pump goroutine is still live.
func (d *ffmpegDecoder) Running() bool {
	return d.running.Load()
}

// Close stops the pump, waits for it to exit, then frees the FFmpeg state.
func (d *ffmpegDecoder) Close() {
	d.Stop()

	d.mu.Lock()
	done := d.doneCh
	d.mu.Unlock()
	if done != nil {
		<-done
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	C.close_table_decoder(&d.cdec)
}
