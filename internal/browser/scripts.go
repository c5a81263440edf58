package browser

// metadataFunction receives an element and returns the plain object that
// metadataFromMap converts into entity.ElementMetadata.
const metadataFunction = `(element) => {
	const getXPath = (el) => {
		if (el.id) return "//*[@id='" + el.id + "']";
		const parts = [];
		while (el && el.nodeType === Node.ELEMENT_NODE) {
			let count = 0;
			let index = 0;
			for (let sib = el.parentNode ? el.parentNode.firstChild : null; sib; sib = sib.nextSibling) {
				if (sib.nodeType === Node.ELEMENT_NODE && sib.tagName === el.tagName) {
					count++;
					if (sib === el) index = count;
				}
			}
			const tag = el.tagName.toLowerCase();
			parts.unshift(count > 1 ? tag + '[' + index + ']' : tag);
			el = el.parentNode;
		}
		return '/' + parts.join('/');
	};

	const getCssPath = (el) => {
		if (el.id) return '#' + CSS.escape(el.id);
		const parts = [];
		while (el && el.nodeType === Node.ELEMENT_NODE) {
			if (el.id) {
				parts.unshift('#' + CSS.escape(el.id));
				break;
			}
			let sel = el.tagName.toLowerCase();
			if (el.classList.length) {
				sel += '.' + Array.from(el.classList).map((c) => CSS.escape(c)).join('.');
			}
			parts.unshift(sel);
			el = el.parentElement;
		}
		return parts.join(' > ');
	};

	const getNthIndex = (el) => {
		let index = 1;
		for (let sib = el.previousElementSibling; sib; sib = sib.previousElementSibling) {
			if (sib.tagName === el.tagName) index++;
		}
		return index;
	};

	const getDomPath = (el) => {
		const path = [];
		for (let cur = el; cur && cur.tagName; cur = cur.parentElement) {
			const single = cur.childNodes.length === 1 && cur.childNodes[0].nodeType === Node.TEXT_NODE;
			path.unshift({
				tagName: cur.tagName.toLowerCase(),
				id: cur.id || '',
				classes: Array.from(cur.classList),
				text: single ? cur.textContent.trim() : '',
				isCurrent: cur === el,
			});
			if (cur.tagName.toLowerCase() === 'body') break;
		}
		return path;
	};

	const attributes = {};
	for (const attr of element.attributes) {
		attributes[attr.name] = attr.value;
	}

	return {
		tagName: element.tagName.toLowerCase(),
		id: element.id || '',
		classList: Array.from(element.classList),
		attributes: attributes,
		innerText: element.innerText || '',
		normalizedText: (element.textContent || '').trim().replace(/\s+/g, ' '),
		parentTagName: element.parentElement ? element.parentElement.tagName.toLowerCase() : '',
		nthIndex: getNthIndex(element),
		cssPath: getCssPath(element),
		xpathPath: getXPath(element),
		outerHTML: element.outerHTML,
		domPath: getDomPath(element),
	};
}`

// captureAtPointScript resolves the element under a viewport coordinate.
const captureAtPointScript = `({ x, y }) => {
	const el = document.elementFromPoint(x, y);
	if (!el) return null;
	return (` + metadataFunction + `)(el);
}`

// takeSelectionScript returns the element picked with Ctrl/Cmd+click and
// clears the selection.
const takeSelectionScript = `() => {
	const el = window.__smartLocatorSelected;
	if (!el || !el.isConnected) return null;
	window.__smartLocatorSelected = null;
	return (` + metadataFunction + `)(el);
}`

const hasSelectionScript = `() => !!window.__smartLocatorSelected`

const isArmedScript = `() => window.__smartLocatorArmed === true`

// captureModeScript highlights the hovered element and records it on
// Ctrl/Cmd+click. Escape tears the overlay down. It is safe to evaluate more
// than once per document.
const captureModeScript = `() => {
	const arm = () => {
		if (window.__smartLocatorArmed || !document.body) return;
		window.__smartLocatorArmed = true;
		window.__smartLocatorHovered = null;
		window.__smartLocatorSelected = null;

		const box = document.createElement('div');
		box.id = '__smart-locator-highlight';
		box.style.cssText = 'position:absolute;border:2px solid #667eea;background:rgba(102,126,234,0.1);' +
			'pointer-events:none;z-index:999999;display:none;';
		document.body.appendChild(box);

		const tip = document.createElement('div');
		tip.id = '__smart-locator-tooltip';
		tip.style.cssText = 'position:absolute;background:rgba(0,0,0,0.9);color:#fff;padding:6px 10px;' +
			'border-radius:4px;font:12px monospace;pointer-events:none;z-index:1000000;display:none;max-width:300px;';
		document.body.appendChild(tip);

		let active = true;

		document.addEventListener('keydown', (e) => {
			if (e.key !== 'Escape') return;
			active = false;
			box.remove();
			tip.remove();
		});

		document.addEventListener('mouseover', (e) => {
			if (!active) return;
			const el = e.target;
			window.__smartLocatorHovered = el;

			const rect = el.getBoundingClientRect();
			box.style.top = (rect.top + window.scrollY) + 'px';
			box.style.left = (rect.left + window.scrollX) + 'px';
			box.style.width = rect.width + 'px';
			box.style.height = rect.height + 'px';
			box.style.display = 'block';

			const id = el.id ? '#' + el.id : '';
			const cls = el.classList.length ? '.' + Array.from(el.classList).join('.') : '';
			tip.textContent = el.tagName.toLowerCase() + id + cls;
			tip.style.top = (rect.bottom + window.scrollY + 5) + 'px';
			tip.style.left = (rect.left + window.scrollX) + 'px';
			tip.style.display = 'block';
		}, true);

		document.addEventListener('click', (e) => {
			if (!active || !window.__smartLocatorHovered) return;
			if (!e.ctrlKey && !e.metaKey) return;
			e.preventDefault();
			e.stopPropagation();
			window.__smartLocatorSelected = window.__smartLocatorHovered;
		}, true);
	};

	if (document.readyState === 'loading') {
		document.addEventListener('DOMContentLoaded', arm, { once: true });
	} else {
		arm();
	}
}`

// captureModeInitScript is registered on the browser context so every new
// document arms itself.
const captureModeInitScript = `(` + captureModeScript + `)();`
